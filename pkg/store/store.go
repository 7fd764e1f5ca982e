// Package store persists the project library, application settings, and the
// global block catalog in a SQLite database under the user's home
// directory.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/oxcad/oxcad/pkg/project"
	"github.com/oxcad/oxcad/pkg/shape"
)

// ErrNotFound reports a lookup for a project or block that does not exist.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT DEFAULT '',
	template TEXT DEFAULT 'blank',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	shape_count INTEGER DEFAULT 0,
	layer_count INTEGER DEFAULT 1,
	thumbnail TEXT,
	project_data TEXT
);

CREATE TABLE IF NOT EXISTS app_settings (
	key TEXT PRIMARY KEY,
	value TEXT
);

CREATE TABLE IF NOT EXISTS global_blocks (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at DESC);
`

// ProjectMeta is a project library entry without the document payload.
type ProjectMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
	ShapeCount  int    `json:"shapeCount"`
	LayerCount  int    `json:"layerCount"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Store is the SQLite-backed project library.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// DefaultPath returns the per-user database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: home dir: %w", err)
	}
	return filepath.Join(home, ".oxcad", "oxcad.db"), nil
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db, log: log.WithField("component", "store")}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// CreateProject makes a new library entry from a template and returns its
// metadata alongside the initial document.
func (s *Store) CreateProject(ctx context.Context, name, description, template string) (ProjectMeta, *project.Project, error) {
	p := FromTemplate(name, template)
	data, err := json.Marshal(p)
	if err != nil {
		return ProjectMeta{}, nil, fmt.Errorf("store: marshal project: %w", err)
	}

	meta := ProjectMeta{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Template:    template,
		CreatedAt:   time.Now().Unix(),
		UpdatedAt:   time.Now().Unix(),
		ShapeCount:  len(p.Shapes),
		LayerCount:  len(p.Layers),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, template, created_at,
			updated_at, shape_count, layer_count, project_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, meta.Description, meta.Template,
		meta.CreatedAt, meta.UpdatedAt, meta.ShapeCount, meta.LayerCount,
		string(data))
	if err != nil {
		return ProjectMeta{}, nil, fmt.Errorf("store: create project: %w", err)
	}

	s.log.WithFields(logrus.Fields{"id": meta.ID, "template": template}).Info("project created")
	return meta, p, nil
}

// Project loads a document and its metadata by id.
func (s *Store) Project(ctx context.Context, id string) (ProjectMeta, *project.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, template, created_at, updated_at,
			shape_count, layer_count, COALESCE(thumbnail, ''), COALESCE(project_data, '')
		FROM projects WHERE id = ?`, id)

	var meta ProjectMeta
	var data string
	err := row.Scan(&meta.ID, &meta.Name, &meta.Description, &meta.Template,
		&meta.CreatedAt, &meta.UpdatedAt, &meta.ShapeCount, &meta.LayerCount,
		&meta.Thumbnail, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectMeta{}, nil, ErrNotFound
	}
	if err != nil {
		return ProjectMeta{}, nil, fmt.Errorf("store: load project: %w", err)
	}

	var p project.Project
	if data != "" {
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return ProjectMeta{}, nil, fmt.Errorf("store: decode project %s: %w", id, err)
		}
	}
	return meta, &p, nil
}

// UpdateProject stores the current document under an existing id, refreshing
// the derived metadata. An empty thumbnail leaves the stored one alone.
func (s *Store) UpdateProject(ctx context.Context, id string, p *project.Project, thumbnail string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: marshal project: %w", err)
	}
	now := time.Now().Unix()

	if thumbnail != "" {
		_, err = s.db.ExecContext(ctx, `
			UPDATE projects SET name=?, updated_at=?, shape_count=?,
				layer_count=?, thumbnail=?, project_data=? WHERE id=?`,
			p.Name, now, len(p.Shapes), len(p.Layers), thumbnail, string(data), id)
	} else {
		_, err = s.db.ExecContext(ctx, `
			UPDATE projects SET name=?, updated_at=?, shape_count=?,
				layer_count=?, project_data=? WHERE id=?`,
			p.Name, now, len(p.Shapes), len(p.Layers), string(data), id)
	}
	if err != nil {
		return fmt.Errorf("store: update project %s: %w", id, err)
	}
	return nil
}

// DeleteProject removes a library entry.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete project %s: %w", id, err)
	}
	return nil
}

// RecentProjects lists library entries, most recently updated first.
func (s *Store) RecentProjects(ctx context.Context, limit int) ([]ProjectMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, template, created_at, updated_at,
			shape_count, layer_count, COALESCE(thumbnail, '')
		FROM projects ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectMeta
	for rows.Next() {
		var m ProjectMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Template,
			&m.CreatedAt, &m.UpdatedAt, &m.ShapeCount, &m.LayerCount, &m.Thumbnail); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveThumbnail attaches a rendered preview (as a data URL) to a project.
func (s *Store) SaveThumbnail(ctx context.Context, id, dataURL string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE projects SET thumbnail=? WHERE id=?`, dataURL, id); err != nil {
		return fmt.Errorf("store: save thumbnail: %w", err)
	}
	return nil
}

// Setting returns an application setting, or def when unset.
func (s *Store) Setting(ctx context.Context, key, def string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get setting %s: %w", key, err)
	}
	return v, nil
}

// SetSetting stores an application setting.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO app_settings (key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("store: set setting %s: %w", key, err)
	}
	return nil
}

const lastProjectKey = "last_project_id"

// LastProjectID returns the id of the last opened project, empty if none.
func (s *Store) LastProjectID(ctx context.Context) (string, error) {
	return s.Setting(ctx, lastProjectKey, "")
}

// SetLastProjectID records the project to reopen on next launch.
func (s *Store) SetLastProjectID(ctx context.Context, id string) error {
	return s.SetSetting(ctx, lastProjectKey, id)
}

// SaveGlobalBlock stores a block definition in the shared library,
// replacing any previous shape set under the same name.
func (s *Store) SaveGlobalBlock(ctx context.Context, name string, shapes []shape.Shape) error {
	data, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("store: marshal block %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO global_blocks (name, data, updated_at)
		VALUES (?, ?, ?)`, name, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: save block %s: %w", name, err)
	}
	return nil
}

// GlobalBlockNames lists the shared library's block names, sorted.
func (s *Store) GlobalBlockNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM global_blocks ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("store: list blocks: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("store: scan block: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// GlobalBlock loads a block definition from the shared library.
func (s *Store) GlobalBlock(ctx context.Context, name string) ([]shape.Shape, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM global_blocks WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load block %s: %w", name, err)
	}
	var shapes []shape.Shape
	if err := json.Unmarshal([]byte(data), &shapes); err != nil {
		return nil, fmt.Errorf("store: decode block %s: %w", name, err)
	}
	return shapes, nil
}

// DeleteGlobalBlock removes a block from the shared library.
func (s *Store) DeleteGlobalBlock(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM global_blocks WHERE name = ?`, name); err != nil {
		return fmt.Errorf("store: delete block %s: %w", name, err)
	}
	return nil
}
