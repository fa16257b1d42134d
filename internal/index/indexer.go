package index

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/eliseohh/sagebot/internal/canvas"
	"github.com/eliseohh/sagebot/internal/log"
	"github.com/eliseohh/sagebot/internal/metrics"
)

type CourseSource interface {
	ListCourses(ctx context.Context) ([]canvas.Course, error)
	ListAssignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error)
}

type Indexer struct {
	db      *DB
	source  CourseSource
	workers int
}

func NewIndexer(db *DB, source CourseSource) *Indexer {
	return &Indexer{db: db, source: source, workers: 4}
}

type syncJob struct {
	Course canvas.Course
}

type syncResult struct {
	Course      canvas.Course
	Hash        string
	Assignments []canvas.Assignment
	Err         error
	Changed     bool
}

type SyncStats struct {
	Courses int
	New     int
	Changed int
	Failed  int
	Pruned  int
}

// Sync mirrors the token owner's Canvas courses into the index.
// Workers fetch and hash each course with its assignments; a single consumer
// writes only the courses whose hash moved.
func (idx *Indexer) Sync(ctx context.Context) (SyncStats, error) {
	ll := log.GetLogger(log.IndexModule)
	start := time.Now()
	defer func() { metrics.SyncSeconds.Observe(time.Since(start).Seconds()) }()

	var stats SyncStats
	courses, err := idx.source.ListCourses(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "list courses")
	}
	stats.Courses = len(courses)

	known, err := idx.db.CourseHashes()
	if err != nil {
		return stats, err
	}

	jobs := make(chan syncJob, len(courses))
	results := make(chan syncResult, len(courses))
	var wg sync.WaitGroup

	for i := 0; i < idx.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx.worker(ctx, known, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range courses {
			select {
			case jobs <- syncJob{Course: c}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	validIDs := make(map[int64]bool, len(courses))
	for _, c := range courses {
		validIDs[c.ID] = true
	}

	// SQLite single-writer preference.
	tx, err := idx.db.Begin()
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	now := time.Now()
	for res := range results {
		if res.Err != nil {
			stats.Failed++
			ll.WithError(res.Err).Warnf("can not sync course %d", res.Course.ID)
			continue
		}
		if !res.Changed {
			continue
		}
		if _, ok := known[res.Course.ID]; ok {
			stats.Changed++
			ll.Infof("[*] Changed: %d %s", res.Course.ID, res.Course.Name)
		} else {
			stats.New++
			ll.Infof("[+] New: %d %s", res.Course.ID, res.Course.Name)
		}
		if err := upsertCourse(tx, res.Course, res.Hash, now); err != nil {
			return stats, err
		}
		if err := replaceAssignments(tx, res.Course.ID, res.Assignments); err != nil {
			return stats, err
		}
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if err := tx.Commit(); err != nil {
		return stats, errors.Wrap(err, "commit sync")
	}

	pruned, err := idx.prune(validIDs)
	stats.Pruned = pruned
	return stats, err
}

func (idx *Indexer) worker(ctx context.Context, known map[int64]string, jobs <-chan syncJob, results chan<- syncResult) {
	for job := range jobs {
		res := syncResult{Course: job.Course}

		as, err := idx.source.ListAssignments(ctx, job.Course.ID)
		if err != nil {
			res.Err = err
			results <- res
			continue
		}

		h, err := contentHash(job.Course, as)
		if err != nil {
			res.Err = err
			results <- res
			continue
		}
		res.Hash = h
		res.Assignments = as
		res.Changed = known[job.Course.ID] != h
		results <- res
	}
}

func (idx *Indexer) prune(validIDs map[int64]bool) (int, error) {
	ids, err := idx.db.CourseIDs()
	if err != nil {
		return 0, err
	}

	var toDelete []int64
	for _, id := range ids {
		if !validIDs[id] {
			toDelete = append(toDelete, id)
		}
	}
	if len(toDelete) == 0 {
		return 0, nil
	}

	log.GetLogger(log.IndexModule).Infof("[-] Pruning %d stale courses", len(toDelete))
	for _, id := range toDelete {
		if err := idx.db.DeleteCourse(id); err != nil {
			return 0, err
		}
	}
	return len(toDelete), nil
}

func contentHash(c canvas.Course, as []canvas.Assignment) (string, error) {
	b, err := json.Marshal(struct {
		Course      canvas.Course       `json:"course"`
		Assignments []canvas.Assignment `json:"assignments"`
	}{c, as})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(b)), nil
}
