package sqlitedb

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

func OpenDb(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}
