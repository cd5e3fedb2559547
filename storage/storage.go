package storage

import (
	"context"
	Errors "errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const uniqueViolation = "23505"

var retryDelay = 2 * time.Second

// Open connects a pooled sqlx handle to the relational store, retrying the
// initial ping a few times so the service survives a database that is still
// coming up.
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	return open(ctx, "pgx", databaseURL)
}

func open(ctx context.Context, driverName string, databaseURL string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	for attempt := 1; ; attempt++ {
		db, err = sqlx.Open(driverName, databaseURL)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				return db, nil
			}
			db.Close()
		}
		if attempt == 5 {
			return nil, err
		}
		log.Printf("retrying database connection (%d/5)", attempt)
		time.Sleep(retryDelay)
	}
}

// Migrate bootstraps the schema. All statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS members (
			memberid SERIAL PRIMARY KEY,
			firstname TEXT NOT NULL,
			lastname TEXT NOT NULL,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			verification INT NOT NULL DEFAULT 0,
			CONSTRAINT members_username_key UNIQUE (username),
			CONSTRAINT members_email_key UNIQUE (email)
		);`,
		`CREATE TABLE IF NOT EXISTS credentials (
			memberid INT PRIMARY KEY REFERENCES members(memberid) ON DELETE CASCADE,
			saltedhash TEXT NOT NULL,
			salt TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS contacts (
			memberid_a INT NOT NULL REFERENCES members(memberid) ON DELETE CASCADE,
			memberid_b INT NOT NULL REFERENCES members(memberid) ON DELETE CASCADE,
			verified INT NOT NULL DEFAULT 0,
			PRIMARY KEY (memberid_a, memberid_b)
		);`,
		`CREATE TABLE IF NOT EXISTS chats (
			chatid SERIAL PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chatmembers (
			chatid INT NOT NULL REFERENCES chats(chatid) ON DELETE CASCADE,
			memberid INT NOT NULL REFERENCES members(memberid) ON DELETE CASCADE,
			PRIMARY KEY (chatid, memberid)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			primarykey SERIAL PRIMARY KEY,
			chatid INT NOT NULL REFERENCES chats(chatid) ON DELETE CASCADE,
			memberid INT NOT NULL REFERENCES members(memberid) ON DELETE CASCADE,
			message TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS push_token (
			memberid INT PRIMARY KEY REFERENCES members(memberid) ON DELETE CASCADE,
			token TEXT NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// UniqueConstraint returns the name of the violated unique constraint, or ""
// when err is not a unique violation. Route pipelines use the name to map
// duplicate-key failures to their conflict messages.
func UniqueConstraint(err error) string {
	var pgErr *pgconn.PgError
	if Errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}
