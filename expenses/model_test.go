package expenses

import "testing"

func TestCategoryLabel_CoversEveryCategory(t *testing.T) {
	for _, c := range []Category{Accommodation, Transportation, Food, Entertainment, Shopping, Other} {
		if CategoryLabel(c) == "" {
			t.Errorf("category %q has no label", c)
		}
	}
}

func TestCategoryLabel_UnknownFallsBackToOther(t *testing.T) {
	if got := CategoryLabel(Category("bribes")); got != "Other" {
		t.Fatalf("got %q", got)
	}
}

func TestValidCategory(t *testing.T) {
	if !ValidCategory("food") {
		t.Fatal("food should be valid")
	}
	if ValidCategory("gasolina") {
		t.Fatal("unknown category accepted")
	}
}
