package index

import (
	"database/sql"
	"time"

	"github.com/go-faster/errors"

	"github.com/eliseohh/sagebot/internal/canvas"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// CourseHashes maps every indexed course to its stored hash.
func (d *DB) CourseHashes() (map[int64]string, error) {
	rows, err := d.Query("SELECT id, hash FROM courses")
	if err != nil {
		return nil, errors.Wrap(err, "query course hashes")
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var (
			id int64
			h  string
		)
		if err := rows.Scan(&id, &h); err != nil {
			return nil, err
		}
		out[id] = h
	}
	return out, rows.Err()
}

func (d *DB) UpsertCourse(c canvas.Course, hash string) error {
	return upsertCourse(d, c, hash, time.Now())
}

func upsertCourse(e execer, c canvas.Course, hash string, now time.Time) error {
	_, err := e.Exec(`INSERT INTO courses (id, name, course_code, state, hash, synced_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, course_code = excluded.course_code,
		state = excluded.state, hash = excluded.hash, synced_at = excluded.synced_at`,
		c.ID, c.Name, c.CourseCode, c.WorkflowState, hash, now.Unix())
	if err != nil {
		return errors.Wrapf(err, "upsert course %d", c.ID)
	}
	return nil
}

func (d *DB) ReplaceAssignments(courseID int64, as []canvas.Assignment) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := replaceAssignments(tx, courseID, as); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceAssignments(e execer, courseID int64, as []canvas.Assignment) error {
	if _, err := e.Exec("DELETE FROM assignments WHERE course_id = ?", courseID); err != nil {
		return errors.Wrapf(err, "clear assignments of %d", courseID)
	}
	for _, a := range as {
		var due any
		if a.DueAt != nil {
			due = a.DueAt.Unix()
		}
		_, err := e.Exec(`INSERT OR REPLACE INTO assignments (id, course_id, name, due_at, points_possible, html_url)
			VALUES (?, ?, ?, ?, ?, ?)`, a.ID, courseID, a.Name, due, a.PointsPossible, a.HTMLURL)
		if err != nil {
			return errors.Wrapf(err, "insert assignment %d", a.ID)
		}
	}
	return nil
}

func (d *DB) Courses() ([]canvas.Course, error) {
	rows, err := d.Query("SELECT id, name, course_code, state FROM courses ORDER BY course_code, name")
	if err != nil {
		return nil, errors.Wrap(err, "query courses")
	}
	defer rows.Close()

	var out []canvas.Course
	for rows.Next() {
		var c canvas.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CourseCode, &c.WorkflowState); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) CourseIDs() ([]int64, error) {
	rows, err := d.Query("SELECT id FROM courses")
	if err != nil {
		return nil, errors.Wrap(err, "query course ids")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (d *DB) DeleteCourse(id int64) error {
	if _, err := d.Exec("DELETE FROM courses WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "delete course %d", id)
	}
	return nil
}

// Assignments lists a course's assignments, soonest due first, undated last.
func (d *DB) Assignments(courseID int64) ([]canvas.Assignment, error) {
	rows, err := d.Query(`SELECT id, course_id, name, due_at, points_possible, html_url FROM assignments
		WHERE course_id = ? ORDER BY due_at IS NULL, due_at, id`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "query assignments")
	}
	defer rows.Close()

	var out []canvas.Assignment
	for rows.Next() {
		var (
			a   canvas.Assignment
			due sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.CourseID, &a.Name, &due, &a.PointsPossible, &a.HTMLURL); err != nil {
			return nil, err
		}
		if due.Valid {
			t := time.Unix(due.Int64, 0).UTC()
			a.DueAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
