package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/inventory-service/internal/model"
)

// InventoryRepo is the item store over the `inventory` table.  Updates are
// plain read-then-write with no version column: concurrent writers race and
// the last one wins.
type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

// List returns every item ordered by id.
func (r *InventoryRepo) List(ctx context.Context) ([]model.Item, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,quantity,created_at,updated_at FROM inventory ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// Get fetches a single item by id.
func (r *InventoryRepo) Get(ctx context.Context, id uint64) (*model.Item, error) {
	var it model.Item
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,quantity,created_at,updated_at FROM inventory WHERE id=? LIMIT 1", id).
		Scan(&it.ID, &it.Name, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Create inserts a new item and returns it as stored.
func (r *InventoryRepo) Create(ctx context.Context, name string, quantity int) (*model.Item, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO inventory (name, quantity) VALUES (?,?)", name, quantity)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create item: last insert id: %w", err)
	}
	return r.Get(ctx, uint64(id))
}

// Update replaces name and quantity of an existing item.
func (r *InventoryRepo) Update(ctx context.Context, id uint64, name string, quantity int) (*model.Item, error) {
	// Existence is checked separately because MySQL reports 0 affected rows
	// for an update that changes nothing.
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE inventory SET name=?, quantity=? WHERE id=?", name, quantity, id); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return r.Get(ctx, id)
}

// Delete removes an item by id.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM inventory WHERE id=?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
