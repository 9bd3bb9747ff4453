package jobdefer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// Store persists deferred actions so a worker crash between
// registration and completion cannot lose cleanup work. Actions are
// recorded pending before the runtime is touched and marked executed
// once the completion hook has run them.
type Store struct {
	conn *sql.DB
}

// OpenStore creates or opens the registry database at the given path.
// It enables WAL mode and runs migrations.
func OpenStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open defer store: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
-- Deferred actions: cleanup registered by running jobs, pending until
-- the job's completion hook executes them.
CREATE TABLE IF NOT EXISTS deferred_actions (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id          TEXT NOT NULL,
    container       TEXT NOT NULL,
    kind            TEXT NOT NULL,
    grace_seconds   INTEGER NOT NULL DEFAULT 0,
    registered_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    executed_at     DATETIME
);

CREATE INDEX IF NOT EXISTS idx_deferred_job ON deferred_actions(job_id);
CREATE INDEX IF NOT EXISTS idx_deferred_pending ON deferred_actions(job_id) WHERE executed_at IS NULL;
`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Record inserts a pending action and returns its row id.
func (s *Store) Record(a Action) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO deferred_actions (job_id, container, kind, grace_seconds) VALUES (?, ?, ?, ?)`,
		a.Job, a.Container, a.Kind.String(), int64(a.Grace.Seconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record deferred action: %w", err)
	}
	return res.LastInsertId()
}

// MarkExecuted stamps the action as done.
func (s *Store) MarkExecuted(id int64) error {
	_, err := s.conn.Exec(
		`UPDATE deferred_actions SET executed_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark deferred action executed: %w", err)
	}
	return nil
}

// Recorded is a persisted action together with its row id.
type Recorded struct {
	ID     int64
	Action Action
}

// Pending returns the not-yet-executed actions for a job, oldest
// first. A retried worker loads these to re-register outstanding
// cleanup.
func (s *Store) Pending(job string) ([]Recorded, error) {
	rows, err := s.conn.Query(
		`SELECT id, job_id, container, kind, grace_seconds
		 FROM deferred_actions
		 WHERE job_id = ? AND executed_at IS NULL
		 ORDER BY id`,
		job,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending actions: %w", err)
	}
	defer rows.Close()

	var out []Recorded
	for rows.Next() {
		var r Recorded
		var kind string
		var graceSecs int64
		if err := rows.Scan(&r.ID, &r.Action.Job, &r.Action.Container, &kind, &graceSecs); err != nil {
			return nil, fmt.Errorf("failed to scan pending action: %w", err)
		}
		k, err := parseActionKind(kind)
		if err != nil {
			return nil, err
		}
		r.Action.Kind = k
		r.Action.Grace = time.Duration(graceSecs) * time.Second
		out = append(out, r)
	}
	return out, rows.Err()
}

func parseActionKind(s string) (lifecycle.ActionKind, error) {
	switch s {
	case "force-kill":
		return lifecycle.KindForceKill, nil
	case "stop-then-kill":
		return lifecycle.KindStopThenKill, nil
	case "none":
		return lifecycle.KindNone, nil
	default:
		return lifecycle.KindNone, fmt.Errorf("unknown action kind %q in defer store", s)
	}
}

// Durable is a Registry backed by a Store. Construction reloads any
// actions left pending by a crashed attempt of the same job, so a
// retried worker converges on the same cleanup exactly once per
// completion.
type Durable struct {
	store *Store
	job   string

	mu      sync.Mutex
	pending []Recorded
	done    bool

	// OnExecuted, when set, observes each action after it runs.
	OnExecuted func(Action, error)
}

// NewDurable creates a durable registry scoped to one job.
func NewDurable(store *Store, job string) (*Durable, error) {
	pending, err := store.Pending(job)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 {
		log.Info("re-registered deferred cleanup from previous attempt", "job", job, "actions", len(pending))
	}
	return &Durable{store: store, job: job, pending: pending}, nil
}

// Defer records the action durably, then registers it.
func (d *Durable) Defer(a Action) error {
	a.Job = d.job
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return ErrCompleted
	}
	id, err := d.store.Record(a)
	if err != nil {
		return err
	}
	d.pending = append(d.pending, Recorded{ID: id, Action: a})
	return nil
}

// Len returns the number of outstanding actions.
func (d *Durable) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return 0
	}
	return len(d.pending)
}

// RunAll executes every outstanding action at most once, newest first,
// marking each executed as it succeeds. Failed actions stay pending so
// a retried job picks them up; their errors are joined and returned.
func (d *Durable) RunAll(ctx context.Context, client container.Client) error {
	d.mu.Lock()
	if d.done {
		d.mu.Unlock()
		return nil
	}
	d.done = true
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	var failures []error
	for i := len(pending) - 1; i >= 0; i-- {
		r := pending[i]
		err := r.Action.Execute(ctx, client)
		if d.OnExecuted != nil {
			d.OnExecuted(r.Action, err)
		}
		if err != nil {
			log.Error("deferred cleanup failed", "job", r.Action.Job, "container", r.Action.Container, "action", r.Action.Kind, "err", err)
			failures = append(failures, err)
			continue
		}
		if err := d.store.MarkExecuted(r.ID); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

var (
	_ Registry = (*Completion)(nil)
	_ Registry = (*Durable)(nil)
)
