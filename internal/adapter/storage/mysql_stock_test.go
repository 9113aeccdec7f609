package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/rl1809/stock-reserve/internal/core/domain"
)

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockreserve?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return db
}

func seedStock(t *testing.T, db *sql.DB, item string, qty int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO stock (item, quantity) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE quantity = ?`, item, qty, qty)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func readStock(t *testing.T, db *sql.DB, item string) int {
	t.Helper()
	var qty int
	if err := db.QueryRow(`SELECT quantity FROM stock WHERE item = ?`, item).Scan(&qty); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return qty
}

func TestTryDecrement_Success(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "decr-item", 10)

	remaining, err := ledger.TryDecrement(ctx, "decr-item", 3)
	if err != nil {
		t.Fatalf("TryDecrement failed: %v", err)
	}
	if remaining != 7 {
		t.Errorf("expected remaining 7, got %d", remaining)
	}
	if stock := readStock(t, db, "decr-item"); stock != 7 {
		t.Errorf("expected stored stock 7, got %d", stock)
	}
}

func TestTryDecrement_Insufficient(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "low-item", 5)

	current, err := ledger.TryDecrement(ctx, "low-item", 10)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if current != 5 {
		t.Errorf("expected current 5 reported, got %d", current)
	}
	if stock := readStock(t, db, "low-item"); stock != 5 {
		t.Errorf("stock changed by failed decrement: %d", stock)
	}
}

func TestTryDecrement_NotFound(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	db.Exec(`DELETE FROM stock WHERE item = 'ghost-item'`)

	if _, err := ledger.TryDecrement(ctx, "ghost-item", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

// Two identical calls both apply. The operation is at-most-once per call,
// never deduplicated.
func TestTryDecrement_AppliesTwice(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "twice-item", 10)

	if _, err := ledger.TryDecrement(ctx, "twice-item", 3); err != nil {
		t.Fatalf("first decrement failed: %v", err)
	}
	remaining, err := ledger.TryDecrement(ctx, "twice-item", 3)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if remaining != 4 {
		t.Errorf("expected remaining 4 after two decrements, got %d", remaining)
	}
}

func TestTryDecrement_Concurrent(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)

	initialStock := 20
	totalRequests := 50
	seedStock(t, db, "concurrent-item", initialStock)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.TryDecrement(ctx, "concurrent-item", 1)
			if err == nil {
				successCount.Add(1)
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}
	if stock := readStock(t, db, "concurrent-item"); stock != 0 {
		t.Errorf("expected stock 0, got %d", stock)
	}
}

func TestIncrement(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "incr-item", 5)

	quantity, err := ledger.Increment(ctx, "incr-item", 3)
	if err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if quantity != 8 {
		t.Errorf("expected quantity 8, got %d", quantity)
	}

	if _, err := ledger.Increment(ctx, "ghost-item", 1); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestGetQuantity(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "get-item", 42)

	qty, err := ledger.GetQuantity(ctx, "get-item")
	if err != nil {
		t.Fatalf("GetQuantity failed: %v", err)
	}
	if qty != 42 {
		t.Errorf("expected 42, got %d", qty)
	}

	if _, err := ledger.GetQuantity(ctx, "ghost-item"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestListAll(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	ledger := NewMySQLStockLedger(db)
	seedStock(t, db, "list-a", 1)
	seedStock(t, db, "list-b", 2)

	items, err := ledger.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	found := map[string]int{}
	for _, it := range items {
		found[it.Item] = it.Quantity
	}
	if found["list-a"] != 1 || found["list-b"] != 2 {
		t.Errorf("seeded items missing from listing: %v", found)
	}
}
