// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// Compile-time interface check.
var _ store.SceneStore = (*SceneStore)(nil)

// SceneStore implements store.SceneStore backed by SQLite.
type SceneStore struct {
	db *sql.DB
}

// NewSceneStore opens (or creates) a SQLite database at dbPath and
// initialises the snapshot and element tables.
func NewSceneStore(dbPath string) (*SceneStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "opening sqlite db", ifcerr.FieldPath(dbPath))
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "pinging sqlite db", ifcerr.FieldPath(dbPath))
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "migrating sqlite db", ifcerr.FieldPath(dbPath))
	}

	return &SceneStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
	id                TEXT PRIMARY KEY,
	project_id        TEXT NOT NULL,
	project_global_id TEXT NOT NULL DEFAULT '',
	project_name      TEXT NOT NULL DEFAULT '',
	source_path       TEXT NOT NULL,
	schema_name       TEXT NOT NULL DEFAULT '',
	bbox_valid        INTEGER NOT NULL DEFAULT 0,
	min_x REAL NOT NULL DEFAULT 0, min_y REAL NOT NULL DEFAULT 0, min_z REAL NOT NULL DEFAULT 0,
	max_x REAL NOT NULL DEFAULT 0, max_y REAL NOT NULL DEFAULT 0, max_z REAL NOT NULL DEFAULT 0,
	elements          INTEGER NOT NULL DEFAULT 0,
	leaves            INTEGER NOT NULL DEFAULT 0,
	points            INTEGER NOT NULL DEFAULT 0,
	faces             INTEGER NOT NULL DEFAULT 0,
	created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id, created_at);

CREATE TABLE IF NOT EXISTS elements (
	snapshot_id  TEXT NOT NULL,
	express_id   INTEGER NOT NULL,
	parent_id    INTEGER NOT NULL DEFAULT 0,
	type_name    TEXT NOT NULL,
	depth        INTEGER NOT NULL DEFAULT 0,
	leaves       INTEGER NOT NULL DEFAULT 0,
	points       INTEGER NOT NULL DEFAULT 0,
	faces        INTEGER NOT NULL DEFAULT 0,
	color_r REAL NOT NULL DEFAULT 0, color_g REAL NOT NULL DEFAULT 0,
	color_b REAL NOT NULL DEFAULT 0, color_a REAL NOT NULL DEFAULT 0,
	has_color    INTEGER NOT NULL DEFAULT 0,
	bounds_valid INTEGER NOT NULL DEFAULT 0,
	min_x REAL NOT NULL DEFAULT 0, min_y REAL NOT NULL DEFAULT 0, min_z REAL NOT NULL DEFAULT 0,
	max_x REAL NOT NULL DEFAULT 0, max_y REAL NOT NULL DEFAULT 0, max_z REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (snapshot_id, express_id),
	FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_elements_parent ON elements(snapshot_id, parent_id);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *SceneStore) Close() error {
	return s.db.Close()
}

func (s *SceneStore) SaveSnapshot(ctx context.Context, snap *store.Snapshot, elements []*store.Element) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "beginning snapshot transaction")
	}
	defer func() { _ = tx.Rollback() }()

	const qs = `INSERT INTO snapshots (id, project_id, project_global_id, project_name, source_path, schema_name,
bbox_valid, min_x, min_y, min_z, max_x, max_y, max_z, elements, leaves, points, faces, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, qs,
		snap.ID.String(),
		snap.ProjectID.String(),
		snap.ProjectGlobalID,
		snap.ProjectName,
		snap.SourcePath,
		snap.Schema,
		snap.BBox.Valid,
		snap.BBox.Min[0], snap.BBox.Min[1], snap.BBox.Min[2],
		snap.BBox.Max[0], snap.BBox.Max[1], snap.BBox.Max[2],
		snap.Elements,
		snap.Leaves,
		snap.Points,
		snap.Faces,
		formatTime(snap.CreatedAt),
	)
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "inserting snapshot", ifcerr.FieldSnapshot(snap.ID.String()))
	}

	const qe = `INSERT INTO elements (snapshot_id, express_id, parent_id, type_name, depth, leaves, points, faces,
color_r, color_g, color_b, color_a, has_color, bounds_valid, min_x, min_y, min_z, max_x, max_y, max_z)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, qe)
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "preparing element insert")
	}
	defer stmt.Close()

	for _, el := range elements {
		el.SnapshotID = snap.ID
		if err := el.Validate(); err != nil {
			return err
		}
		_, err := stmt.ExecContext(ctx,
			el.SnapshotID.String(),
			el.ExpressID,
			el.ParentID,
			el.TypeName,
			el.Depth,
			el.Leaves,
			el.Points,
			el.Faces,
			el.Color[0], el.Color[1], el.Color[2], el.Color[3],
			el.HasColor,
			el.Bounds.Valid,
			el.Bounds.Min[0], el.Bounds.Min[1], el.Bounds.Min[2],
			el.Bounds.Max[0], el.Bounds.Max[1], el.Bounds.Max[2],
		)
		if err != nil {
			return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "inserting element",
				ifcerr.FieldSnapshot(snap.ID.String()), ifcerr.FieldExpressID(el.ExpressID))
		}
	}

	if err := tx.Commit(); err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "committing snapshot", ifcerr.FieldSnapshot(snap.ID.String()))
	}
	return nil
}

const snapshotColumns = `id, project_id, project_global_id, project_name, source_path, schema_name,
bbox_valid, min_x, min_y, min_z, max_x, max_y, max_z, elements, leaves, points, faces, created_at`

func (s *SceneStore) GetSnapshot(ctx context.Context, id uuid.UUID) (*store.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id.String())
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ifcerr.New(ifcerr.CodeStoreSnapshotNotFound, "snapshot not found", ifcerr.FieldSnapshot(id.String()))
	}
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "getting snapshot", ifcerr.FieldSnapshot(id.String()))
	}
	return snap, nil
}

func (s *SceneStore) LatestSnapshot(ctx context.Context, projectID uuid.UUID) (*store.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE project_id = ? ORDER BY created_at DESC LIMIT 1`,
		projectID.String())
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ifcerr.New(ifcerr.CodeStoreSnapshotNotFound, "no snapshot for project",
			ifcerr.Field("project_id", projectID.String()))
	}
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "getting latest snapshot")
	}
	return snap, nil
}

func (s *SceneStore) ListSnapshots(ctx context.Context, opts store.ListOpts) ([]*store.Snapshot, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, opts.Offset)
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "listing snapshots")
	}
	defer rows.Close()

	var snaps []*store.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "scanning snapshot row")
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "iterating snapshot rows")
	}
	return snaps, nil
}

func (s *SceneStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "deleting snapshot", ifcerr.FieldSnapshot(id.String()))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "checking rows affected", ifcerr.FieldSnapshot(id.String()))
	}
	if rows == 0 {
		return ifcerr.New(ifcerr.CodeStoreSnapshotNotFound, "snapshot not found", ifcerr.FieldSnapshot(id.String()))
	}
	return nil
}

const elementColumns = `snapshot_id, express_id, parent_id, type_name, depth, leaves, points, faces,
color_r, color_g, color_b, color_a, has_color, bounds_valid, min_x, min_y, min_z, max_x, max_y, max_z`

func (s *SceneStore) GetElement(ctx context.Context, snapshotID uuid.UUID, expressID uint32) (*store.Element, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+elementColumns+` FROM elements WHERE snapshot_id = ? AND express_id = ?`,
		snapshotID.String(), expressID)
	el, err := scanElement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ifcerr.New(ifcerr.CodeStoreElementNotFound, "element not found",
			ifcerr.FieldSnapshot(snapshotID.String()), ifcerr.FieldExpressID(expressID))
	}
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "getting element",
			ifcerr.FieldSnapshot(snapshotID.String()), ifcerr.FieldExpressID(expressID))
	}
	return el, nil
}

func (s *SceneStore) ListChildren(ctx context.Context, snapshotID uuid.UUID, parentID uint32) ([]*store.Element, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+elementColumns+` FROM elements WHERE snapshot_id = ? AND parent_id = ? ORDER BY express_id`,
		snapshotID.String(), parentID)
	if err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "listing children",
			ifcerr.FieldSnapshot(snapshotID.String()), ifcerr.FieldExpressID(parentID))
	}
	defer rows.Close()

	var out []*store.Element
	for rows.Next() {
		el, err := scanElement(rows)
		if err != nil {
			return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "scanning element row")
		}
		out = append(out, el)
	}
	if err := rows.Err(); err != nil {
		return nil, ifcerr.Wrap(err, ifcerr.CodeStoreDatabaseFailure, "iterating element rows")
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (*store.Snapshot, error) {
	var snap store.Snapshot
	var id, projectID, createdAt string
	err := sc.Scan(
		&id,
		&projectID,
		&snap.ProjectGlobalID,
		&snap.ProjectName,
		&snap.SourcePath,
		&snap.Schema,
		&snap.BBox.Valid,
		&snap.BBox.Min[0], &snap.BBox.Min[1], &snap.BBox.Min[2],
		&snap.BBox.Max[0], &snap.BBox.Max[1], &snap.BBox.Max[2],
		&snap.Elements,
		&snap.Leaves,
		&snap.Points,
		&snap.Faces,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	snap.ID, _ = uuid.Parse(id)
	snap.ProjectID, _ = uuid.Parse(projectID)
	snap.CreatedAt = parseTime(createdAt)
	return &snap, nil
}

func scanElement(sc scanner) (*store.Element, error) {
	var el store.Element
	var snapshotID string
	err := sc.Scan(
		&snapshotID,
		&el.ExpressID,
		&el.ParentID,
		&el.TypeName,
		&el.Depth,
		&el.Leaves,
		&el.Points,
		&el.Faces,
		&el.Color[0], &el.Color[1], &el.Color[2], &el.Color[3],
		&el.HasColor,
		&el.Bounds.Valid,
		&el.Bounds.Min[0], &el.Bounds.Min[1], &el.Bounds.Min[2],
		&el.Bounds.Max[0], &el.Bounds.Max[1], &el.Bounds.Max[2],
	)
	if err != nil {
		return nil, err
	}
	el.SnapshotID, _ = uuid.Parse(snapshotID)
	return &el, nil
}

// formatTime serialises a time for storage.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
