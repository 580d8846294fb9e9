// Package store provides SQLite persistence for products, kits and
// their composition.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)

	"github.com/ivalero/montaje/internal/model"
)

// Store errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store wraps the SQLite database holding the product catalogue.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and runs migrations.
// WAL mode and a busy timeout keep concurrent readers happy.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Debug("store opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		code TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		department TEXT NOT NULL,
		worker_type INTEGER NOT NULL,
		location TEXT,
		has_parts INTEGER NOT NULL DEFAULT 0,
		optimal_minutes REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sub_parts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_code TEXT NOT NULL,
		description TEXT NOT NULL,
		minutes REAL NOT NULL,
		worker_type INTEGER NOT NULL,
		FOREIGN KEY (product_code) REFERENCES products (code) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS kits (
		code TEXT PRIMARY KEY,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS kit_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kit_code TEXT NOT NULL,
		product_code TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		FOREIGN KEY (kit_code) REFERENCES kits (code) ON DELETE CASCADE,
		FOREIGN KEY (product_code) REFERENCES products (code) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sub_parts_product ON sub_parts(product_code);
	CREATE INDEX IF NOT EXISTS idx_kit_items_kit ON kit_items(kit_code);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func mapConstraintErr(err error, code string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrDuplicate, code)
	}
	return err
}

// AddProduct inserts a product and its sub-parts in one transaction.
func (s *Store) AddProduct(ctx context.Context, p *model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (code, description, department, worker_type, location, has_parts, optimal_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Description, string(p.Department), p.WorkerType, p.Location, boolToInt(p.HasParts), p.OptimalMinutes)
	if err != nil {
		return mapConstraintErr(err, p.Code)
	}

	if err := insertParts(ctx, tx, p.Code, p.Parts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Debug("product added", "code", p.Code)
	return nil
}

// UpdateProduct replaces a product, identified by its original code,
// with new data. Sub-parts are rewritten wholesale; a code change
// re-points kit lines at the new code.
func (s *Store) UpdateProduct(ctx context.Context, originalCode string, p *model.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Child rows still carry the old code until re-pointed below, so
	// the parent key change must not be checked statement by statement.
	if _, err := tx.ExecContext(ctx, `PRAGMA defer_foreign_keys = ON`); err != nil {
		return fmt.Errorf("defer foreign keys: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET code = ?, description = ?, department = ?, worker_type = ?, location = ?, has_parts = ?, optimal_minutes = ?
		WHERE code = ?`,
		p.Code, p.Description, string(p.Department), p.WorkerType, p.Location, boolToInt(p.HasParts), p.OptimalMinutes,
		originalCode)
	if err != nil {
		return mapConstraintErr(err, p.Code)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, originalCode)
	}

	if p.Code != originalCode {
		if _, err := tx.ExecContext(ctx, `UPDATE kit_items SET product_code = ? WHERE product_code = ?`,
			p.Code, originalCode); err != nil {
			return fmt.Errorf("re-point kit items: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sub_parts WHERE product_code = ?`, originalCode); err != nil {
		return fmt.Errorf("delete old parts: %w", err)
	}
	if err := insertParts(ctx, tx, p.Code, p.Parts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertParts(ctx context.Context, tx *sql.Tx, code string, parts []model.SubPart) error {
	for _, part := range parts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sub_parts (product_code, description, minutes, worker_type)
			VALUES (?, ?, ?, ?)`,
			code, part.Description, part.Minutes, part.WorkerType)
		if err != nil {
			return fmt.Errorf("insert sub-part: %w", err)
		}
	}
	return nil
}

// DeleteProduct removes a product; its sub-parts and kit references
// cascade.
func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, code)
	}
	return nil
}

// GetProduct loads a product with its sub-parts.
func (s *Store) GetProduct(ctx context.Context, code string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, description, department, worker_type, location, has_parts, optimal_minutes
		FROM products WHERE code = ?`, code)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, code)
		}
		return nil, err
	}

	parts, err := s.partsOf(ctx, code)
	if err != nil {
		return nil, err
	}
	p.Parts = parts
	return p, nil
}

func (s *Store) partsOf(ctx context.Context, code string) ([]model.SubPart, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, minutes, worker_type
		FROM sub_parts WHERE product_code = ? ORDER BY id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []model.SubPart
	for rows.Next() {
		var sp model.SubPart
		if err := rows.Scan(&sp.Description, &sp.Minutes, &sp.WorkerType); err != nil {
			return nil, err
		}
		parts = append(parts, sp)
	}
	return parts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	var dept string
	var location sql.NullString
	var hasParts int
	if err := row.Scan(&p.Code, &p.Description, &dept, &p.WorkerType, &location, &hasParts, &p.OptimalMinutes); err != nil {
		return nil, err
	}
	p.Department = model.Department(dept)
	p.Location = location.String
	p.HasParts = hasParts == 1
	return &p, nil
}

// SearchProducts matches code or description against a substring
// query. An empty query returns everything, ordered by code.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, description, department, worker_type, location, has_parts, optimal_minutes
		FROM products
		WHERE code LIKE ? OR description LIKE ?
		ORDER BY code`, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
