package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

type MySQLOrderLedger struct {
	db *sql.DB
}

func NewMySQLOrderLedger(db *sql.DB) *MySQLOrderLedger {
	return &MySQLOrderLedger{db: db}
}

// CommitOrder persists the order and decrements stock in one transaction.
// The decrement is the same guarded UPDATE used by the stock ledger, so stock
// sufficiency is re-validated at commit time regardless of what any earlier
// availability read observed. If the guard fails the whole transaction rolls
// back and no order row survives.
func (m *MySQLOrderLedger) CommitOrder(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, item, quantity, created_at)
		VALUES (?, ?, ?, ?)`,
		order.ID, order.Item, order.Quantity, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE stock
		SET quantity = quantity - ?, updated_at = NOW()
		WHERE item = ? AND quantity >= ?`,
		order.Quantity, order.Item, order.Quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		_, err := classifyMiss(ctx, tx, order.Item)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (m *MySQLOrderLedger) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, item, quantity, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Item, &o.Quantity, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
