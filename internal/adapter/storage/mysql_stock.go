package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

// MySQLStockLedger is the authoritative stock store. All mutations go through
// conditional writes; the quantity column never goes negative.
type MySQLStockLedger struct {
	db *sql.DB
}

func NewMySQLStockLedger(db *sql.DB) *MySQLStockLedger {
	return &MySQLStockLedger{db: db}
}

func (m *MySQLStockLedger) GetQuantity(ctx context.Context, item string) (int, error) {
	var qty int
	err := m.db.QueryRowContext(ctx,
		`SELECT quantity FROM stock WHERE item = ?`, item,
	).Scan(&qty)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return qty, nil
}

// TryDecrement applies the decrement as a single guarded UPDATE. Two
// concurrent callers racing for the last units are serialized by the store;
// at most one guarded write can succeed when only one has enough stock.
func (m *MySQLStockLedger) TryDecrement(ctx context.Context, item string, qty int) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE stock
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE item = ? AND quantity >= ?`,
		qty, item, qty,
	)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return classifyMiss(ctx, tx, item)
	}

	var remaining int
	if err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM stock WHERE item = ?`, item,
	).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("read remaining stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit decrement: %w", err)
	}
	return remaining, nil
}

func (m *MySQLStockLedger) Increment(ctx context.Context, item string, qty int) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE stock
		SET quantity = quantity + ?, updated_at = NOW()
		WHERE item = ?`,
		qty, item,
	)
	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrItemNotFound
	}

	var quantity int
	if err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM stock WHERE item = ?`, item,
	).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("read stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit increment: %w", err)
	}
	return quantity, nil
}

func (m *MySQLStockLedger) ListAll(ctx context.Context) ([]domain.StockItem, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT item, quantity, updated_at FROM stock ORDER BY item`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var items []domain.StockItem
	for rows.Next() {
		var it domain.StockItem
		if err := rows.Scan(&it.Item, &it.Quantity, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock rows: %w", err)
	}
	return items, nil
}

// classifyMiss tells a missing item apart from insufficient stock after a
// guarded UPDATE touched no rows. Runs inside the caller's transaction.
func classifyMiss(ctx context.Context, tx *sql.Tx, item string) (int, error) {
	var current int
	err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM stock WHERE item = ?`, item,
	).Scan(&current)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return current, domain.ErrInsufficientStock
}
