// Package webchat is a development-only chat harness: it stores the
// conversation transcript in the database and routes messages through
// the same bot router the WhatsApp transport uses. Remove the package
// (and the chat_messages table) for production deployments.
package webchat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Sender    Sender    `json:"sender"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(userID string, sender Sender, message string) error {
	_, err := r.db.Exec("INSERT INTO chat_messages (id, user_id, sender, message, `read`) VALUES (?,?,?,?,0)",
		uuid.NewString(), userID, string(sender), message)
	return err
}

func (r *Repository) FindByUser(userID string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query("SELECT id, user_id, sender, message, `read`, timestamp FROM chat_messages WHERE user_id=? ORDER BY timestamp ASC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ChatMessage{}
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Message, &m.Read, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) MarkAsRead(userID string) error {
	_, err := r.db.Exec("UPDATE chat_messages SET `read`=1 WHERE user_id=? AND `read`=0", userID)
	return err
}

// ClearOldMessages deletes transcript rows older than daysOld days.
func (r *Repository) ClearOldMessages(daysOld int) error {
	if daysOld <= 0 {
		daysOld = 7
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	_, err := r.db.Exec(`DELETE FROM chat_messages WHERE timestamp < ?`, cutoff)
	return err
}
