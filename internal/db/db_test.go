package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/motoriq/fieldsync/internal/models"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "fieldsync.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}()

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	// Verify path is stored correctly
	if db.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "fieldsync.db")

	db, err := New(DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	}()

	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("nested directories were not created")
	}
}

func TestNew_SeedsDeviceState(t *testing.T) {
	db := testDB(t)

	state, err := db.GetDeviceState()
	if err != nil {
		t.Fatalf("GetDeviceState() error = %v", err)
	}
	if state.ID != "default" {
		t.Errorf("device state ID = %q, want %q", state.ID, "default")
	}
	if state.SyncVersion != 0 {
		t.Errorf("SyncVersion = %d, want 0", state.SyncVersion)
	}
}

// --- Record Tests ---

func TestPutGetRecord(t *testing.T) {
	db := testDB(t)

	rec := &models.CachedRecord{
		Collection: models.CollectionWorkOrders,
		ID:         "wo-001",
		Payload:    []byte(`{"id":"wo-001","number":"WO-2024-001","status":"open"}`),
	}
	if err := db.PutRecord(rec); err != nil {
		t.Fatalf("PutRecord() error = %v", err)
	}

	retrieved, err := db.GetRecord(models.CollectionWorkOrders, "wo-001")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetRecord() returned nil")
	}
	if string(retrieved.Payload) != string(rec.Payload) {
		t.Errorf("Payload = %s, want %s", retrieved.Payload, rec.Payload)
	}
	if retrieved.LastSyncedAt.IsZero() {
		t.Error("LastSyncedAt should be set on put")
	}
}

func TestGetRecord_Absent(t *testing.T) {
	db := testDB(t)

	rec, err := db.GetRecord(models.CollectionWorkOrders, "no-such-id")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec != nil {
		t.Error("GetRecord() should return nil for absent record")
	}
}

func TestPutRecord_Replaces(t *testing.T) {
	db := testDB(t)

	first := &models.CachedRecord{
		Collection: models.CollectionWorkOrders,
		ID:         "wo-replace",
		Payload:    []byte(`{"status":"open"}`),
	}
	if err := db.PutRecord(first); err != nil {
		t.Fatalf("PutRecord() error = %v", err)
	}

	second := &models.CachedRecord{
		Collection: models.CollectionWorkOrders,
		ID:         "wo-replace",
		Payload:    []byte(`{"status":"closed"}`),
	}
	if err := db.PutRecord(second); err != nil {
		t.Fatalf("PutRecord() replace error = %v", err)
	}

	retrieved, err := db.GetRecord(models.CollectionWorkOrders, "wo-replace")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if string(retrieved.Payload) != `{"status":"closed"}` {
		t.Errorf("Payload = %s, want replaced payload", retrieved.Payload)
	}

	// Still exactly one row
	recs, err := db.GetAllRecords(models.CollectionWorkOrders)
	if err != nil {
		t.Fatalf("GetAllRecords() error = %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("GetAllRecords() returned %d records, want 1", len(recs))
	}
}

func TestRecords_CollectionsAreIsolated(t *testing.T) {
	db := testDB(t)

	// Same id in two collections must not collide
	for _, collection := range []string{models.CollectionWorkOrders, models.CollectionProcedures} {
		rec := &models.CachedRecord{
			Collection: collection,
			ID:         "shared-id",
			Payload:    []byte(`{"from":"` + collection + `"}`),
		}
		if err := db.PutRecord(rec); err != nil {
			t.Fatalf("PutRecord(%s) error = %v", collection, err)
		}
	}

	wo, err := db.GetRecord(models.CollectionWorkOrders, "shared-id")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if string(wo.Payload) != `{"from":"work_orders"}` {
		t.Errorf("work_orders payload = %s", wo.Payload)
	}

	if err := db.DeleteRecord(models.CollectionWorkOrders, "shared-id"); err != nil {
		t.Fatalf("DeleteRecord() error = %v", err)
	}

	proc, err := db.GetRecord(models.CollectionProcedures, "shared-id")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if proc == nil {
		t.Error("deleting from one collection must not touch another")
	}
}

func TestWorkOrderRoundTrip(t *testing.T) {
	db := testDB(t)

	wo := &models.WorkOrder{
		ID:          "wo-round",
		Number:      "WO-2024-042",
		Status:      "scheduled",
		ScheduledAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		Customer: &models.Customer{
			ID:   "cust-1",
			Name: "Acme Manufacturing",
		},
		Equipment: &models.EquipmentUnit{
			ID:            "eq-1",
			EquipmentType: "chiller",
			Hierarchy: []models.EquipmentUnit{
				{ID: "site-1", EquipmentType: "site"},
				{ID: "bldg-1", EquipmentType: "building"},
			},
		},
	}

	if err := db.PutWorkOrder(wo); err != nil {
		t.Fatalf("PutWorkOrder() error = %v", err)
	}

	retrieved, err := db.GetWorkOrder("wo-round")
	if err != nil {
		t.Fatalf("GetWorkOrder() error = %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetWorkOrder() returned nil")
	}
	if retrieved.Number != "WO-2024-042" {
		t.Errorf("Number = %q, want %q", retrieved.Number, "WO-2024-042")
	}
	if retrieved.Customer == nil || retrieved.Customer.Name != "Acme Manufacturing" {
		t.Error("nested customer did not survive the round trip")
	}
	if retrieved.Equipment == nil || len(retrieved.Equipment.Hierarchy) != 2 {
		t.Error("equipment hierarchy did not survive the round trip")
	}
}

func TestProcedureRoundTrip(t *testing.T) {
	db := testDB(t)

	p := &models.Procedure{
		ID:            "proc-1",
		Name:          "Quarterly chiller inspection",
		EquipmentType: "chiller",
		Steps: []models.ProcedureStep{
			{ID: "step-1", ProcedureID: "proc-1", Seq: 1, Instruction: "Isolate power"},
			{ID: "step-2", ProcedureID: "proc-1", Seq: 2, Instruction: "Check refrigerant", RequiresPhoto: true},
		},
	}

	if err := db.PutProcedure(p); err != nil {
		t.Fatalf("PutProcedure() error = %v", err)
	}

	retrieved, err := db.GetProcedure("proc-1")
	if err != nil {
		t.Fatalf("GetProcedure() error = %v", err)
	}
	if len(retrieved.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(retrieved.Steps))
	}
	if !retrieved.Steps[1].RequiresPhoto {
		t.Error("RequiresPhoto did not survive the round trip")
	}
}

// --- ClearAll Tests ---

func TestClearAll(t *testing.T) {
	db := testDB(t)

	if err := db.PutWorkOrder(&models.WorkOrder{ID: "wo-clear"}); err != nil {
		t.Fatalf("PutWorkOrder() error = %v", err)
	}
	if err := db.StagePhoto(&models.StagedPhoto{Blob: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("StagePhoto() error = %v", err)
	}
	if _, err := db.Enqueue("work_sessions", models.OpInsert, []byte(`{"id":"ws-1"}`)); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if err := db.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	recs, _ := db.GetAllRecords(models.CollectionWorkOrders)
	if len(recs) != 0 {
		t.Errorf("records after ClearAll = %d, want 0", len(recs))
	}
	photos, _ := db.ListPhotos()
	if len(photos) != 0 {
		t.Errorf("photos after ClearAll = %d, want 0", len(photos))
	}
	items, _ := db.ListQueueInOrder()
	if len(items) != 0 {
		t.Errorf("queue items after ClearAll = %d, want 0", len(items))
	}
}

// --- Transaction Tests ---

func TestTransaction_Commit(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *DB) error {
		return tx.PutRecord(&models.CachedRecord{
			Collection: models.CollectionWorkOrders,
			ID:         "tx-commit",
			Payload:    []byte(`{}`),
		})
	})
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}

	rec, err := db.GetRecord(models.CollectionWorkOrders, "tx-commit")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil {
		t.Error("record should exist after transaction commit")
	}
}

func TestTransaction_Rollback(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *DB) error {
		if err := tx.PutRecord(&models.CachedRecord{
			Collection: models.CollectionWorkOrders,
			ID:         "tx-rollback",
			Payload:    []byte(`{}`),
		}); err != nil {
			return err
		}
		return os.ErrInvalid
	})
	if err != os.ErrInvalid {
		t.Errorf("Expected os.ErrInvalid, got %v", err)
	}

	rec, err := db.GetRecord(models.CollectionWorkOrders, "tx-rollback")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec != nil {
		t.Error("record should NOT exist after transaction rollback")
	}
}

func TestStorageUsed(t *testing.T) {
	db := testDB(t)

	if db.StorageUsed() <= 0 {
		t.Error("StorageUsed() should report a positive size for an open database")
	}
}
