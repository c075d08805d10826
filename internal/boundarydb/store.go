// Package boundarydb persists exploration runs to sqlite: one row per run
// with its parameters and counters, one row per committed halfspace. The
// exploration engine itself never touches storage; drivers record results
// here after (or during) a run.
package boundarydb

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/sembas/internal/boundary"
	"github.com/banshee-data/sembas/internal/geom"
)

// Store wraps the sqlite database holding exploration runs.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the run store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			dims              BIGINT,
			jump_distance     DOUBLE,
			margin            DOUBLE,
			adherer           TEXT,
			samples           BIGINT,
			boundary_lost     BIGINT,
			out_of_bounds     BIGINT,
			boundary_count    BIGINT,
			notes             TEXT,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at       TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS halfspaces (
			run_id            TEXT,
			node_id           BIGINT,
			parent_id         BIGINT,
			point             TEXT,
			normal            TEXT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(run_id, node_id),
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// Run is one exploration run's record.
type Run struct {
	RunID         string
	Dims          int
	JumpDistance  float64
	Margin        float64
	Adherer       string
	Samples       int
	BoundaryLost  int
	OutOfBounds   int
	BoundaryCount int
	Notes         string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// BeginRun registers a new run and returns its id.
func (s *Store) BeginRun(dims int, jumpDistance, margin float64, adherer, notes string) (string, error) {
	runID := uuid.NewString()
	_, err := s.Exec(
		`INSERT INTO runs (run_id, dims, jump_distance, margin, adherer, samples, boundary_lost, out_of_bounds, boundary_count, notes)
		 VALUES (?, ?, ?, ?, ?, 0, 0, 0, 0, ?)`,
		runID, dims, jumpDistance, margin, adherer, notes,
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	log.Printf("[RunStore] Started run %s (dims=%d, d=%g, margin=%g, adherer=%s)", runID, dims, jumpDistance, margin, adherer)
	return runID, nil
}

// FinishRun records the final counters of a run.
func (s *Store) FinishRun(runID string, stats boundary.ExplorationStats, boundaryCount int) error {
	res, err := s.Exec(
		`UPDATE runs SET samples = ?, boundary_lost = ?, out_of_bounds = ?, boundary_count = ?, finished_at = CURRENT_TIMESTAMP
		 WHERE run_id = ?`,
		stats.Samples, stats.BoundaryLost, stats.OutOfBounds, boundaryCount, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: unknown run", runID)
	}
	log.Printf("[RunStore] Finished run %s: %d boundary points, %d samples (%d BLE, %d OOB)",
		runID, boundaryCount, stats.Samples, stats.BoundaryLost, stats.OutOfBounds)
	return nil
}

// InsertHalfspace records one committed node of a run.
func (s *Store) InsertHalfspace(runID string, node boundary.PointNode) error {
	_, err := s.Exec(
		`INSERT INTO halfspaces (run_id, node_id, parent_id, point, normal) VALUES (?, ?, ?, ?, ?)`,
		runID, node.ID, node.ParentID, encodeVector(node.HS.B), encodeVector(node.HS.N),
	)
	if err != nil {
		return fmt.Errorf("insert halfspace %d of run %s: %w", node.ID, runID, err)
	}
	return nil
}

// InsertBoundary records a whole boundary sequence in one transaction.
func (s *Store) InsertBoundary(runID string, nodes []boundary.PointNode) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO halfspaces (run_id, node_id, parent_id, point, normal) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, node := range nodes {
		if _, err := stmt.Exec(runID, node.ID, node.ParentID, encodeVector(node.HS.B), encodeVector(node.HS.N)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert halfspace %d of run %s: %w", node.ID, runID, err)
		}
	}
	return tx.Commit()
}

// RunBoundary loads the committed nodes of a run in commit order.
func (s *Store) RunBoundary(runID string) ([]boundary.PointNode, error) {
	rows, err := s.Query(
		`SELECT node_id, parent_id, point, normal FROM halfspaces WHERE run_id = ? ORDER BY node_id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []boundary.PointNode
	for rows.Next() {
		var node boundary.PointNode
		var point, normal string
		if err := rows.Scan(&node.ID, &node.ParentID, &point, &normal); err != nil {
			return nil, err
		}
		if node.HS.B, err = decodeVector(point); err != nil {
			return nil, fmt.Errorf("run %s node %d point: %w", runID, node.ID, err)
		}
		if node.HS.N, err = decodeVector(normal); err != nil {
			return nil, fmt.Errorf("run %s node %d normal: %w", runID, node.ID, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.Query(
		`SELECT run_id, dims, jump_distance, margin, adherer, samples, boundary_lost, out_of_bounds, boundary_count, notes, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, run_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.RunID, &r.Dims, &r.JumpDistance, &r.Margin, &r.Adherer,
			&r.Samples, &r.BoundaryLost, &r.OutOfBounds, &r.BoundaryCount, &r.Notes,
			&r.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// encodeVector renders a vector as space-separated decimals with enough
// digits to round-trip exactly.
func encodeVector(v geom.Vector) string {
	fields := make([]string, len(v))
	for i, x := range v {
		fields[i] = strconv.FormatFloat(x, 'g', 17, 64)
	}
	return strings.Join(fields, " ")
}

func decodeVector(s string) (geom.Vector, error) {
	fields := strings.Fields(s)
	v := make(geom.Vector, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return v, nil
}
