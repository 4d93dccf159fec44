package pgdb

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func OpenDb(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach postgres db: %w", err)
	}
	return db, nil
}
