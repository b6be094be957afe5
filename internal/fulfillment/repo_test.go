//go:build db
// +build db

package fulfillment

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/warehouse360/warehouse360-backend/internal/authz"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("WAREHOUSE360_DB_DSN")
	if dsn == "" {
		t.Skip("WAREHOUSE360_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedOrder(t *testing.T, tx *gorm.DB) (*models.OrderFulfillment, *models.Store) {
	t.Helper()

	warehouse := &models.Warehouse{ID: uuid.New(), Name: "Repo Warehouse"}
	if err := tx.Create(warehouse).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	store := &models.Store{
		ID:          uuid.New(),
		WarehouseID: warehouse.ID,
		StoreName:   "Repo Store",
		IsActive:    true,
	}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	order := &models.OrderFulfillment{
		ID:       uuid.New(),
		StoreID:  &store.ID,
		Quantity: 3,
		Status:   enums.OrderStatusPending,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order, store
}

func TestRepositoryUpdateStatusCAS(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	order, _ := seedOrder(t, tx)
	actor := uuid.New()

	moved, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusDelivered, actor, time.Now())
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !moved {
		t.Fatal("expected first transition to win")
	}

	// Same expected-from row no longer matches.
	moved, err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusOutOfStock, actor, time.Now())
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if moved {
		t.Fatal("expected stale transition to lose the race")
	}

	fetched, err := repo.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if fetched.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", fetched.Status)
	}
	if fetched.ActionTakenByID == nil || *fetched.ActionTakenByID != actor {
		t.Fatal("expected actor stamp on winning transition")
	}
}

func TestRepositoryListScopesToWarehouse(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	_, store := seedOrder(t, tx)
	otherOrder, _ := seedOrder(t, tx)

	scope := authz.Scope{WarehouseID: &store.WarehouseID}
	rows, err := repo.List(ctx, scope, ListFilter{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	for _, row := range rows {
		if row.ID == otherOrder.ID {
			t.Fatal("order from another warehouse leaked into scope")
		}
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 order in scope, got %d", len(rows))
	}
}
