package sync

import (
	"context"
	"fmt"
)

// DownloadWorkOrderData prefetches a work order's full dependency graph
// into the local store for anticipated offline use: the order itself (with
// customer, equipment unit, and hierarchy), all its work sessions, and,
// when the equipment type is known, every procedure template for that type.
//
// There is no atomicity guarantee: a partial failure leaves the store
// partially populated, which is still more useful offline than nothing.
func (m *Manager) DownloadWorkOrderData(ctx context.Context, workOrderID string) error {
	wo, err := m.service.FetchWorkOrder(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("fetch work order %s: %w", workOrderID, err)
	}
	if err := m.store.PutWorkOrder(wo); err != nil {
		return err
	}

	var firstErr error

	sessions, err := m.service.FetchWorkSessions(ctx, workOrderID)
	if err != nil {
		m.logger.Errorf("fetch work sessions for %s: %v", workOrderID, err)
		firstErr = err
	}
	for i := range sessions {
		if err := m.store.PutWorkSession(&sessions[i]); err != nil {
			m.logger.Errorf("cache work session %s: %v", sessions[i].ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	procedureCount := 0
	if wo.Equipment != nil && wo.Equipment.EquipmentType != "" {
		procedures, err := m.service.FetchProceduresByEquipmentType(ctx, wo.Equipment.EquipmentType)
		if err != nil {
			m.logger.Errorf("fetch procedures for %s: %v", wo.Equipment.EquipmentType, err)
			if firstErr == nil {
				firstErr = err
			}
		}
		for i := range procedures {
			if err := m.store.PutProcedure(&procedures[i]); err != nil {
				m.logger.Errorf("cache procedure %s: %v", procedures[i].ID, err)
				if firstErr == nil {
					firstErr = err
				}
			} else {
				procedureCount++
			}
		}
	}

	m.telemetry.TrackWorkOrderDownloaded(len(sessions), procedureCount)
	m.logger.Infof("downloaded work order %s: sessions=%d procedures=%d",
		workOrderID, len(sessions), procedureCount)

	if firstErr != nil {
		return fmt.Errorf("download work order %s: partial: %w", workOrderID, firstErr)
	}
	return nil
}
