package index

import (
	"database/sql"
	_ "embed"

	"github.com/go-faster/errors"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

type DB struct {
	*sql.DB
}

func NewDB(dbPath string) (*DB, error) {
	// Enable Foreign Keys
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping db")
	}

	return &DB{db}, nil
}

// InitSchema applies the embedded schema. Statements are idempotent.
func (d *DB) InitSchema() error {
	if _, err := d.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// Reset drops every table and re-applies the schema.
func (d *DB) Reset() error {
	_, err := d.Exec(`
		DROP TABLE IF EXISTS assignments;
		DROP TABLE IF EXISTS courses;
		DROP TABLE IF EXISTS reminders;
	`)
	if err != nil {
		return errors.Wrap(err, "drop tables")
	}
	return d.InitSchema()
}

type Counts struct {
	Courses     int
	Assignments int
	Reminders   int
}

func (d *DB) Counts() (Counts, error) {
	var c Counts
	err := d.QueryRow(`SELECT
		(SELECT COUNT(*) FROM courses),
		(SELECT COUNT(*) FROM assignments),
		(SELECT COUNT(*) FROM reminders)`).Scan(&c.Courses, &c.Assignments, &c.Reminders)
	if err != nil {
		return Counts{}, errors.Wrap(err, "count rows")
	}
	return c, nil
}
