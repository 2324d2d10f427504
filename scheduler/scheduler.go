package scheduler

import (
	"database/sql"
	"log"
	"time"
)

// UserStore and ChatStore are the maintenance slices the scheduler
// touches; satisfied by the concrete repositories.
type UserStore interface {
	ResetMonthlyTripCounts() error
}

type ChatStore interface {
	ClearOldMessages(daysOld int) error
}

// StateStore persists scheduler bookkeeping across restarts.
type StateStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

const lastResetKey = "trips_last_reset_month"

// Scheduler runs the periodic maintenance jobs: resetting monthly trip
// counters at the month boundary and pruning old web chat transcripts.
// The last reset month lives in the database, so a restart on the 1st
// still performs a pending reset.
type Scheduler struct {
	state StateStore
	users UserStore
	chat  ChatStore
}

func New(state StateStore, userRepo UserStore, chatRepo ChatStore) *Scheduler {
	return &Scheduler{state: state, users: userRepo, chat: chatRepo}
}

// Start launches the background loop. It runs one tick immediately so
// a reset that came due while the process was down fires right away,
// then ticks hourly.
func (s *Scheduler) Start() {
	go func() {
		s.runTick(time.Now())
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			s.runTick(time.Now())
		}
	}()
	log.Printf("[scheduler][started] interval=1h")
}

// runTick guards each tick with its own recover; a panicking job must
// not kill the ticker loop.
func (s *Scheduler) runTick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scheduler][tick_panic] err=%v", r)
		}
	}()
	s.tick(now)
}

func (s *Scheduler) tick(now time.Time) {
	month := now.Format("2006-01")
	stored, err := s.state.Get(lastResetKey)
	if err != nil {
		log.Printf("[scheduler][state_read_failed] err=%v", err)
		return
	}
	switch {
	case stored == "":
		// First run ever: counters are fresh, just record the month.
		if err := s.state.Set(lastResetKey, month); err != nil {
			log.Printf("[scheduler][state_write_failed] err=%v", err)
		}
	case stored != month:
		if err := s.users.ResetMonthlyTripCounts(); err != nil {
			log.Printf("[scheduler][reset_failed] err=%v", err)
			return
		}
		if err := s.state.Set(lastResetKey, month); err != nil {
			log.Printf("[scheduler][state_write_failed] err=%v", err)
			return
		}
		log.Printf("[scheduler][monthly_reset] month=%s", month)
	}

	if s.chat != nil {
		if err := s.chat.ClearOldMessages(7); err != nil {
			log.Printf("[scheduler][chat_prune_failed] err=%v", err)
		}
	}
}

// DBState stores scheduler state in the maintenance_state table.
type DBState struct {
	db *sql.DB
}

func NewDBState(db *sql.DB) *DBState {
	return &DBState{db: db}
}

func (s *DBState) Get(name string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM maintenance_state WHERE name=?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *DBState) Set(name, value string) error {
	_, err := s.db.Exec(`INSERT INTO maintenance_state (name, value) VALUES (?,?)
		ON DUPLICATE KEY UPDATE value=VALUES(value)`, name, value)
	return err
}
