package expenses

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseCols = `id, trip_id, amount, currency, category, description, date,
	COALESCE(receipt_url,''), COALESCE(ocr_text,''), created_at`

func scanExpense(row interface{ Scan(...any) error }) (*Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.TripID, &e.Amount, &e.Currency, &e.Category,
		&e.Description, &e.Date, &e.ReceiptURL, &e.OCRText, &e.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(e *Expense) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Currency == "" {
		e.Currency = "BRL"
	}
	e.CreatedAt = time.Now()
	_, err := r.db.Exec(`INSERT INTO expenses
		(id, trip_id, amount, currency, category, description, date, receipt_url, ocr_text)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		e.ID, e.TripID, e.Amount, e.Currency, string(e.Category), e.Description,
		e.Date.Format("2006-01-02"), emptyToNil(e.ReceiptURL), emptyToNil(e.OCRText))
	return err
}

func (r *Repository) GetByID(id string) (*Expense, error) {
	return scanExpense(r.db.QueryRow(`SELECT `+expenseCols+` FROM expenses WHERE id=? LIMIT 1`, id))
}

// FindAll returns expenses newest-date first, optionally filtered by trip.
func (r *Repository) FindAll(tripID string) ([]Expense, error) {
	rows, err := r.db.Query(`SELECT `+expenseCols+` FROM expenses WHERE (?='' OR trip_id=?) ORDER BY date DESC`,
		tripID, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// FindByUser returns all expenses across a user's trips.
func (r *Repository) FindByUser(userID string) ([]Expense, error) {
	rows, err := r.db.Query(`SELECT e.id, e.trip_id, e.amount, e.currency, e.category, e.description, e.date,
		COALESCE(e.receipt_url,''), COALESCE(e.ocr_text,''), e.created_at
		FROM expenses e JOIN trips t ON e.trip_id = t.id WHERE t.user_id=? ORDER BY e.date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
