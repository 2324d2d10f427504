package expenses

import "time"

type Category string

const (
	Accommodation  Category = "accommodation"
	Transportation Category = "transportation"
	Food           Category = "food"
	Entertainment  Category = "entertainment"
	Shopping       Category = "shopping"
	Other          Category = "other"
)

// categoryLabels maps every category to its user-facing label. The
// bot embeds these in confirmations; there must be no fallthrough to
// an undefined label.
var categoryLabels = map[Category]string{
	Accommodation:  "Accommodation",
	Transportation: "Transportation",
	Food:           "Food",
	Entertainment:  "Entertainment",
	Shopping:       "Shopping",
	Other:          "Other",
}

// CategoryLabel returns the display label for a category. Unknown
// values are labelled as Other rather than leaking the raw string.
func CategoryLabel(c Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[Other]
}

func ValidCategory(s string) bool {
	_, ok := categoryLabels[Category(s)]
	return ok
}

// Expense rows are immutable once created; there is no update or
// delete endpoint.
type Expense struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	ReceiptURL  string    `json:"receiptUrl,omitempty"`
	OCRText     string    `json:"ocrText,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateExpenseInput struct {
	TripID      string  `json:"tripId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required,len=3"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	ReceiptURL  string  `json:"receiptUrl"`
	OCRText     string  `json:"ocrText"`
}
