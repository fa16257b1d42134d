package index

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

type Reminder struct {
	ID      string
	Owner   int64
	ChatID  int64
	Content string
	Expires time.Time
}

// AddReminder stores r, assigning an ID when it has none.
func (d *DB) AddReminder(r *Reminder) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := d.Exec("INSERT INTO reminders (id, owner, chat_id, content, expires) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Owner, r.ChatID, r.Content, r.Expires.Unix())
	if err != nil {
		return errors.Wrap(err, "insert reminder")
	}
	return nil
}

// RemindersFor lists an owner's reminders ordered by expiry.
func (d *DB) RemindersFor(owner int64) ([]Reminder, error) {
	return d.queryReminders("SELECT id, owner, chat_id, content, expires FROM reminders WHERE owner = ? ORDER BY expires, id", owner)
}

// DueReminders lists reminders expiring at or before now.
func (d *DB) DueReminders(now time.Time) ([]Reminder, error) {
	return d.queryReminders("SELECT id, owner, chat_id, content, expires FROM reminders WHERE expires <= ? ORDER BY expires, id", now.Unix())
}

func (d *DB) queryReminders(q string, arg any) ([]Reminder, error) {
	rows, err := d.Query(q, arg)
	if err != nil {
		return nil, errors.Wrap(err, "query reminders")
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var (
			r       Reminder
			expires int64
		)
		if err := rows.Scan(&r.ID, &r.Owner, &r.ChatID, &r.Content, &expires); err != nil {
			return nil, err
		}
		r.Expires = time.Unix(expires, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteReminder reports whether a row was removed.
func (d *DB) DeleteReminder(id string) (bool, error) {
	res, err := d.Exec("DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return false, errors.Wrap(err, "delete reminder")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
