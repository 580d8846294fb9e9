package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ivalero/montaje/internal/model"
	"github.com/ivalero/montaje/internal/schedule"
)

// AddKit inserts a kit and its items in one transaction. Every item
// must reference an existing product.
func (s *Store) AddKit(ctx context.Context, k *model.Kit) error {
	if err := k.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO kits (code, description) VALUES (?, ?)`, k.Code, k.Description)
	if err != nil {
		return mapConstraintErr(err, k.Code)
	}
	if err := insertKitItems(ctx, tx, k.Code, k.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Debug("kit added", "code", k.Code)
	return nil
}

// UpdateKit replaces a kit, identified by its original code. Items are
// rewritten wholesale.
func (s *Store) UpdateKit(ctx context.Context, originalCode string, k *model.Kit) error {
	if err := k.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Items still reference the old code until rewritten below.
	if _, err := tx.ExecContext(ctx, `PRAGMA defer_foreign_keys = ON`); err != nil {
		return fmt.Errorf("defer foreign keys: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE kits SET code = ?, description = ? WHERE code = ?`,
		k.Code, k.Description, originalCode)
	if err != nil {
		return mapConstraintErr(err, k.Code)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: kit %s", ErrNotFound, originalCode)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM kit_items WHERE kit_code = ?`, originalCode); err != nil {
		return fmt.Errorf("delete old items: %w", err)
	}
	if err := insertKitItems(ctx, tx, k.Code, k.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertKitItems(ctx context.Context, tx *sql.Tx, kitCode string, items []model.KitItem) error {
	for _, item := range items {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(1) FROM products WHERE code = ?`, item.ProductCode).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", model.ErrUnknownKitProduct, item.ProductCode)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO kit_items (kit_code, product_code, quantity) VALUES (?, ?, ?)`,
			kitCode, item.ProductCode, item.Quantity)
		if err != nil {
			return fmt.Errorf("insert kit item: %w", err)
		}
	}
	return nil
}

// DeleteKit removes a kit; its items cascade.
func (s *Store) DeleteKit(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kits WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: kit %s", ErrNotFound, code)
	}
	return nil
}

// GetKit loads a kit with its items in insertion order.
func (s *Store) GetKit(ctx context.Context, code string) (*model.Kit, error) {
	var k model.Kit
	err := s.db.QueryRowContext(ctx, `SELECT code, description FROM kits WHERE code = ?`, code).
		Scan(&k.Code, &k.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: kit %s", ErrNotFound, code)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_code, quantity FROM kit_items WHERE kit_code = ? ORDER BY id`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.KitItem
		if err := rows.Scan(&item.ProductCode, &item.Quantity); err != nil {
			return nil, err
		}
		k.Items = append(k.Items, item)
	}
	return &k, rows.Err()
}

// SearchKits matches kit code or description against a substring
// query. An empty query returns everything, ordered by code.
func (s *Store) SearchKits(ctx context.Context, query string) ([]model.Kit, error) {
	like := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, description FROM kits
		WHERE code LIKE ? OR description LIKE ?
		ORDER BY code`, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Kit
	for rows.Next() {
		var k model.Kit
		if err := rows.Scan(&k.Code, &k.Description); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// BuildOrder resolves a kit into fully loaded build items, preserving
// the kit's item order. Items whose product vanished are skipped.
func (s *Store) BuildOrder(ctx context.Context, kitCode string) ([]schedule.BuildItem, error) {
	k, err := s.GetKit(ctx, kitCode)
	if err != nil {
		return nil, err
	}

	items := make([]schedule.BuildItem, 0, len(k.Items))
	for _, item := range k.Items {
		p, err := s.GetProduct(ctx, item.ProductCode)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				slog.Warn("kit references missing product, skipping", "kit", kitCode, "product", item.ProductCode)
				continue
			}
			return nil, err
		}
		items = append(items, schedule.BuildItem{Product: *p, Quantity: item.Quantity})
	}
	return items, nil
}

// Stats summarizes the catalogue.
type Stats struct {
	Products int `json:"products"`
	SubParts int `json:"sub_parts"`
	Kits     int `json:"kits"`
	KitItems int `json:"kit_items"`
}

// CountStats returns row counts for every table.
func (s *Store) CountStats(ctx context.Context) (*Stats, error) {
	var st Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT count(1) FROM products`, &st.Products},
		{`SELECT count(1) FROM sub_parts`, &st.SubParts},
		{`SELECT count(1) FROM kits`, &st.Kits},
		{`SELECT count(1) FROM kit_items`, &st.KitItems},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return &st, nil
}
