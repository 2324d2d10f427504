package migrations

import (
	"database/sql"
	"fmt"
)

var db *sql.DB

// Init sets the DB connection used by Migrate.
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist.
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	createUsers := `
	CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		whatsapp_hash VARCHAR(191) NOT NULL UNIQUE,
		whatsapp_number VARCHAR(32) NULL,
		name VARCHAR(100) NULL,
		email VARCHAR(191) NULL,
		plan ENUM('free','basic','pro') NOT NULL DEFAULT 'free',
		trips_this_month INT NOT NULL DEFAULT 0,
		stripe_customer_id VARCHAR(191) NULL,
		stripe_subscription_id VARCHAR(191) NULL,
		referral_code VARCHAR(16) NULL,
		has_consented TINYINT(1) NOT NULL DEFAULT 0,
		preferences JSON NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createUsers); err != nil {
		return err
	}

	createTrips := `
	CREATE TABLE IF NOT EXISTS trips (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		destination VARCHAR(191) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		number_of_people INT NOT NULL DEFAULT 1,
		estimated_budget DECIMAL(10,2) NULL,
		itinerary TEXT NULL,
		itinerary_data JSON NULL,
		status ENUM('draft','planned','in_progress','completed','cancelled') NOT NULL DEFAULT 'draft',
		booking_links JSON NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createTrips); err != nil {
		return err
	}

	createExpenses := `
	CREATE TABLE IF NOT EXISTS expenses (
		id CHAR(36) PRIMARY KEY,
		trip_id CHAR(36) NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		currency CHAR(3) NOT NULL DEFAULT 'BRL',
		category ENUM('accommodation','transportation','food','entertainment','shopping','other') NOT NULL,
		description VARCHAR(191) NOT NULL,
		date DATE NOT NULL,
		receipt_url VARCHAR(255) NULL,
		ocr_text TEXT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (trip_id) REFERENCES trips(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createExpenses); err != nil {
		return err
	}

	// Development-only web chat transcript. Not part of the durable
	// domain model; drop together with the webchat package.
	createChatMessages := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id CHAR(36) PRIMARY KEY,
		user_id VARCHAR(100) NOT NULL,
		sender ENUM('user','bot') NOT NULL,
		message TEXT NOT NULL,
		` + "`read`" + ` TINYINT(1) NOT NULL DEFAULT 0,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_chat_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createChatMessages); err != nil {
		return err
	}

	// Scheduler bookkeeping (last monthly-reset month survives restarts).
	createMaintenanceState := `
	CREATE TABLE IF NOT EXISTS maintenance_state (
		name VARCHAR(64) PRIMARY KEY,
		value VARCHAR(64) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createMaintenanceState); err != nil {
		return err
	}
	return nil
}
