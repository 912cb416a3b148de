// Package remote defines the external collaborators of the offline engine:
// the table/row data service, blob storage for photo binaries, the runtime
// connectivity signal, and the optional storage-quota estimate. The sync
// manager only ever talks to these interfaces; HTTP implementations live in
// this package too.
package remote

import (
	"context"
	"encoding/json"

	"github.com/motoriq/fieldsync/internal/models"
)

// Service is the table/row-oriented remote data service. The mutation
// queue's table/operation/data shape maps directly onto these primitives.
type Service interface {
	// Insert creates a row in the named table.
	Insert(ctx context.Context, table string, data json.RawMessage) error

	// Update replaces columns of the row with the given id.
	Update(ctx context.Context, table, id string, data json.RawMessage) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, table, id string) error

	// FetchWorkOrder selects a work order with its customer, equipment
	// unit, and full equipment hierarchy nested in.
	FetchWorkOrder(ctx context.Context, id string) (*models.WorkOrder, error)

	// FetchWorkSessions selects all work sessions for a work order.
	FetchWorkSessions(ctx context.Context, workOrderID string) ([]models.WorkSession, error)

	// FetchProceduresByEquipmentType selects every procedure template,
	// with steps, for an equipment type.
	FetchProceduresByEquipmentType(ctx context.Context, equipmentType string) ([]models.Procedure, error)
}

// BlobStore accepts a named binary upload and returns a public URL for it.
type BlobStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Connectivity reports the runtime's online/offline signal. The sync
// manager polls it at the start of each sync attempt.
type Connectivity interface {
	Online() bool
}

// QuotaEstimator reports storage usage in bytes. Implementations that
// cannot estimate must report (0, 0) rather than failing.
type QuotaEstimator interface {
	Estimate() (used, available int64)
}
