package trips

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const tripCols = `id, user_id, destination, start_date, end_date, number_of_people,
	COALESCE(estimated_budget, 0), COALESCE(itinerary,''), itinerary_data, status, booking_links, created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (*Trip, error) {
	var t Trip
	var itinData, links sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Destination, &t.StartDate, &t.EndDate, &t.NumberOfPeople,
		&t.EstimatedBudget, &t.Itinerary, &itinData, &t.Status, &links, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if itinData.Valid && itinData.String != "" {
		_ = json.Unmarshal([]byte(itinData.String), &t.ItineraryData)
	}
	if links.Valid && links.String != "" {
		_ = json.Unmarshal([]byte(links.String), &t.BookingLinks)
	}
	return &t, nil
}

func (r *Repository) Create(t *Trip) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = StatusDraft
	}
	var budget any
	if t.EstimatedBudget > 0 {
		budget = t.EstimatedBudget
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.db.Exec(`INSERT INTO trips
		(id, user_id, destination, start_date, end_date, number_of_people, estimated_budget, status)
		VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.UserID, t.Destination, t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"),
		t.NumberOfPeople, budget, string(t.Status))
	return err
}

func (r *Repository) GetByID(id string) (*Trip, error) {
	return scanTrip(r.db.QueryRow(`SELECT `+tripCols+` FROM trips WHERE id=? LIMIT 1`, id))
}

// FindAll returns trips, newest first, optionally filtered by user.
func (r *Repository) FindAll(userID string) ([]Trip, error) {
	rows, err := r.db.Query(`SELECT `+tripCols+` FROM trips WHERE (?='' OR user_id=?) ORDER BY created_at DESC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of in to the stored trip.
func (r *Repository) Update(id string, in *UpdateTripInput) error {
	sets := []string{}
	args := []any{}
	add := func(expr string, v any) { sets = append(sets, expr); args = append(args, v) }
	if in.Destination != nil {
		add("destination=?", *in.Destination)
	}
	if in.StartDate != nil {
		add("start_date=?", *in.StartDate)
	}
	if in.EndDate != nil {
		add("end_date=?", *in.EndDate)
	}
	if in.NumberOfPeople != nil {
		add("number_of_people=?", *in.NumberOfPeople)
	}
	if in.EstimatedBudget != nil {
		add("estimated_budget=?", *in.EstimatedBudget)
	}
	if in.Status != nil {
		add("status=?", *in.Status)
	}
	if in.BookingLinks != nil {
		b, err := json.Marshal(in.BookingLinks)
		if err != nil {
			return err
		}
		add("booking_links=?", string(b))
	}
	if len(sets) == 0 {
		return nil
	}
	query := "UPDATE trips SET " + sets[0]
	for _, s := range sets[1:] {
		query += ", " + s
	}
	query += " WHERE id=?"
	args = append(args, id)
	_, err := r.db.Exec(query, args...)
	return err
}

// SaveItinerary stores the generated prose and its structured
// derivative without touching status.
func (r *Repository) SaveItinerary(id, text string, structured map[string]any) error {
	b, err := json.Marshal(structured)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE trips SET itinerary=?, itinerary_data=? WHERE id=?`, text, string(b), id)
	return err
}

// TotalSpent sums the trip's expenses. Recomputed on every read; no
// running total is maintained.
func (r *Repository) TotalSpent(id string) (float64, error) {
	var total float64
	err := r.db.QueryRow(`SELECT COALESCE(SUM(amount),0) FROM expenses WHERE trip_id=?`, id).Scan(&total)
	return total, err
}

// FindActiveOrLatest picks the trip whose date range contains "at",
// falling back to the most recently created trip.
func (r *Repository) FindActiveOrLatest(userID string, at time.Time) (*Trip, error) {
	day := at.Format("2006-01-02")
	t, err := scanTrip(r.db.QueryRow(`SELECT `+tripCols+` FROM trips
		WHERE user_id=? AND ? BETWEEN start_date AND end_date
		ORDER BY created_at DESC LIMIT 1`, userID, day))
	if err != nil || t != nil {
		return t, err
	}
	return scanTrip(r.db.QueryRow(`SELECT `+tripCols+` FROM trips
		WHERE user_id=? ORDER BY created_at DESC LIMIT 1`, userID))
}
