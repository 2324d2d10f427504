package itinerary

import (
	"context"
	"testing"
	"time"
)

type countingAI struct {
	calls int
	text  string
}

func (c *countingAI) Complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	c.calls++
	return c.text, nil
}

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", context.Canceled
	}
	return v, nil
}
func (m *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func testRequest() Request {
	return Request{
		Destination:    "Rio de Janeiro",
		StartDate:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		NumberOfPeople: 2,
		Budget:         3000,
	}
}

func TestGenerate_CacheHitSkipsModel(t *testing.T) {
	ai := &countingAI{text: "Day 1: Sugarloaf\n\nDay 2: Copacabana"}
	g := NewGenerator(ai, newMemStore())

	first, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if ai.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", ai.calls)
	}
	if first.Text != second.Text {
		t.Fatalf("cached response differs: %q vs %q", first.Text, second.Text)
	}
}

func TestGenerate_NilCacheStillWorks(t *testing.T) {
	ai := &countingAI{text: "Day 1: walk around"}
	g := NewGenerator(ai, nil)

	resp, err := g.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text == "" {
		t.Fatal("empty itinerary")
	}
}

func TestCacheKey_NormalizesCase(t *testing.T) {
	a := testRequest()
	b := testRequest()
	b.Destination = "RIO DE JANEIRO"
	if cacheKey(a) != cacheKey(b) {
		t.Fatalf("keys differ: %q vs %q", cacheKey(a), cacheKey(b))
	}
	if cacheKey(a) != "itinerary:rio-de-janeiro:2026-09-10:2026-09-13:2:3000" {
		t.Fatalf("unexpected key: %q", cacheKey(a))
	}
}

func TestCacheKey_DistinctRequestsDistinctKeys(t *testing.T) {
	a := testRequest()
	b := testRequest()
	b.NumberOfPeople = 4
	if cacheKey(a) == cacheKey(b) {
		t.Fatal("different requests share a cache key")
	}
}

func TestParseItinerary_ExtractsDaysAndTips(t *testing.T) {
	text := `Trip summary here.

Day 1: Visit Sugarloaf and have lunch in Urca.

Day 2: Beach morning at Copacabana, museum in the afternoon.

💡 Tip: use the metro to avoid traffic.`

	s := parseItinerary(text, 2)
	if s.Days != 2 {
		t.Fatalf("days = %d", s.Days)
	}
	if len(s.DailyActivities) != 2 {
		t.Fatalf("expected 2 daily activities, got %d: %v", len(s.DailyActivities), s.DailyActivities)
	}
	if len(s.Tips) != 1 {
		t.Fatalf("expected 1 tip, got %v", s.Tips)
	}
}

func TestParseItinerary_NoStructureYieldsEmpty(t *testing.T) {
	s := parseItinerary("just a paragraph of prose with no structure", 3)
	if s.Days != 3 {
		t.Fatalf("days = %d", s.Days)
	}
	if len(s.DailyActivities) != 0 || len(s.Tips) != 0 {
		t.Fatalf("expected empty extraction, got %+v", s)
	}
}

func TestTripDays_MinimumOne(t *testing.T) {
	d := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	if got := tripDays(d, d); got != 1 {
		t.Fatalf("same-day trip = %d days", got)
	}
	if got := tripDays(d, d.AddDate(0, 0, 7)); got != 7 {
		t.Fatalf("week trip = %d days", got)
	}
}
