// Package sync implements the background reconciler for the offline engine.
// The manager is the only writer that talks to the remote service on behalf
// of the offline layer: it drains the photo staging area and the mutation
// queue when online, and prefetches work-order data for offline use.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/motoriq/fieldsync/internal/db"
	"github.com/motoriq/fieldsync/internal/log"
	"github.com/motoriq/fieldsync/internal/models"
	"github.com/motoriq/fieldsync/internal/remote"
	"github.com/motoriq/fieldsync/internal/telemetry"
)

const (
	// DefaultInterval is the auto-sync period.
	DefaultInterval = 30 * time.Second

	// DefaultRetryCeiling is the number of replay attempts before a
	// mutation is moved to the dead-letter collection. Photos are exempt
	// and retry without bound.
	DefaultRetryCeiling = 5
)

// ManagerConfig holds the collaborators and tuning for NewManager. Uses a
// struct because the manager has too many dependencies for positional
// parameters.
type ManagerConfig struct {
	Store        *db.DB
	Service      remote.Service
	Blobs        remote.BlobStore
	Connectivity remote.Connectivity
	Quota        remote.QuotaEstimator // optional; absent reports 0/0
	Logger       *log.Logger           // optional
	Telemetry    telemetry.Client      // optional
	Interval     time.Duration         // default 30s
	RetryCeiling int                   // default 5
}

// Result is the outcome of one sync pass. Errors carries precondition
// failures and backlog access failures; a single item failing to replay is
// logged and retried but never surfaced here.
type Result struct {
	Success bool
	Errors  []string
}

// Manager coordinates photo upload and mutation replay against the remote
// service. At most one sync pass executes at a time; the manager is
// long-lived for the process lifetime.
type Manager struct {
	store     *db.DB
	service   remote.Service
	blobs     remote.BlobStore
	gate      remote.Connectivity
	quota     remote.QuotaEstimator
	logger    *log.Logger
	telemetry telemetry.Client

	interval     time.Duration
	retryCeiling int

	// syncing is the re-entrancy guard for SyncAll. The source of truth
	// for "a pass is running" is this flag, not a lock, so a concurrent
	// caller gets an immediate failure instead of blocking.
	syncing atomic.Bool

	autoMu     stdsync.Mutex
	autoCancel context.CancelFunc
	autoDone   chan struct{}
}

// NewManager creates a sync manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.Service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if cfg.Blobs == nil {
		return nil, fmt.Errorf("blob store cannot be nil")
	}
	if cfg.Connectivity == nil {
		return nil, fmt.Errorf("connectivity cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = telemetry.New(nil)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.RetryCeiling <= 0 {
		cfg.RetryCeiling = DefaultRetryCeiling
	}

	return &Manager{
		store:        cfg.Store,
		service:      cfg.Service,
		blobs:        cfg.Blobs,
		gate:         cfg.Connectivity,
		quota:        cfg.Quota,
		logger:       cfg.Logger,
		telemetry:    cfg.Telemetry,
		interval:     cfg.Interval,
		retryCeiling: cfg.RetryCeiling,
	}, nil
}

// SyncAll performs one sync pass: staged photos first, then the mutation
// queue in strict FIFO order. It refuses to run when a pass is already in
// flight or the runtime is offline, and never queues or retries itself.
func (m *Manager) SyncAll(ctx context.Context) Result {
	if !m.syncing.CompareAndSwap(false, true) {
		m.telemetry.TrackSyncSkipped("in_progress")
		return Result{Errors: []string{"sync already in progress"}}
	}
	defer m.syncing.Store(false)

	if !m.gate.Online() {
		m.telemetry.TrackSyncSkipped("offline")
		return Result{Errors: []string{"offline: cannot reach remote service"}}
	}

	start := time.Now()
	var errs []string

	photosUploaded := m.uploadStagedPhotos(ctx, &errs)
	applied, failed := m.drainMutationQueue(ctx, &errs)

	if len(errs) == 0 {
		if err := m.store.RecordSyncCompleted(time.Now()); err != nil {
			m.logger.Errorf("record sync completion: %v", err)
		}
	}

	m.telemetry.TrackSyncCompleted(photosUploaded, applied, failed, time.Since(start).Milliseconds())
	m.logger.Infof("sync pass done: photos=%d applied=%d failed=%d", photosUploaded, applied, failed)

	return Result{Success: len(errs) == 0, Errors: errs}
}

// uploadStagedPhotos pushes every photo with uploaded=false to blob storage.
// A failed photo stays staged and is retried on the next pass with no
// ceiling; one photo's failure never blocks the others.
func (m *Manager) uploadStagedPhotos(ctx context.Context, errs *[]string) int {
	photos, err := m.store.ListPendingPhotos()
	if err != nil {
		*errs = append(*errs, err.Error())
		return 0
	}

	uploaded := 0
	for i := range photos {
		photo := &photos[i]

		select {
		case <-ctx.Done():
			*errs = append(*errs, ctx.Err().Error())
			return uploaded
		default:
		}

		name := fmt.Sprintf("%s-%d.jpg", photo.ID, time.Now().Unix())
		url, err := m.blobs.Upload(ctx, name, photo.Blob)
		if err != nil {
			m.logger.Errorf("upload photo %s: %v", photo.ID, err)
			continue
		}

		if err := m.store.MarkPhotoUploaded(photo.ID); err != nil {
			m.logger.Errorf("mark photo %s uploaded: %v", photo.ID, err)
			continue
		}
		uploaded++
		m.telemetry.TrackPhotoUploaded(len(photo.Blob), photo.WorkSessionID != "")

		// Best effort: the binary is already up, so a metadata failure is
		// logged but not retried and does not block other photos.
		if photo.WorkSessionID != "" {
			if err := m.insertPhotoRow(ctx, photo, url); err != nil {
				m.logger.Errorf("insert photo metadata %s: %v", photo.ID, err)
			}
		}
	}
	return uploaded
}

// insertPhotoRow creates the remote metadata row describing an uploaded
// photo.
func (m *Manager) insertPhotoRow(ctx context.Context, photo *models.StagedPhoto, url string) error {
	row := map[string]interface{}{
		"id":              photo.ID,
		"work_session_id": photo.WorkSessionID,
		"photo_type":      photo.PhotoType,
		"taken_by":        photo.TakenBy,
		"taken_at":        photo.TakenAt,
		"url":             url,
	}
	if photo.StepCompletionID != "" {
		row["step_completion_id"] = photo.StepCompletionID
	}
	if photo.Caption != "" {
		row["caption"] = photo.Caption
	}

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal photo row: %w", err)
	}
	return m.service.Insert(ctx, "photos", data)
}

// drainMutationQueue replays pending writes in creation order. Items at the
// retry ceiling are moved to the dead-letter collection and dropped from
// the pending queue; a replay failure increments the item's counter and
// moves on to the next item.
func (m *Manager) drainMutationQueue(ctx context.Context, errs *[]string) (applied, failed int) {
	items, err := m.store.ListQueueInOrder()
	if err != nil {
		*errs = append(*errs, err.Error())
		return 0, 0
	}

	for i := range items {
		item := &items[i]

		select {
		case <-ctx.Done():
			*errs = append(*errs, ctx.Err().Error())
			return applied, failed
		default:
		}

		if item.Retries >= m.retryCeiling {
			reason := fmt.Sprintf("retry ceiling (%d) reached", m.retryCeiling)
			if err := m.store.MoveToDeadLetter(item, reason); err != nil {
				m.logger.Errorf("dead-letter queue item %d: %v", item.ID, err)
				continue
			}
			m.logger.Errorf("dropping %s on %s after %d attempts (queue id %d)",
				item.Op, item.Table, item.Retries, item.ID)
			m.telemetry.TrackRetryExhausted(item.Table, string(item.Op), item.Retries)
			continue
		}

		if err := m.dispatch(ctx, item); err != nil {
			failed++
			m.logger.Errorf("replay queue item %d (%s on %s): %v", item.ID, item.Op, item.Table, err)
			if ierr := m.store.IncrementRetries(item.ID); ierr != nil {
				m.logger.Errorf("increment retries for item %d: %v", item.ID, ierr)
			}
			continue
		}

		if err := m.store.RemoveQueueItem(item.ID); err != nil {
			// The write was applied remotely; leaving the item queued
			// risks a duplicate on the next pass, so surface this one.
			*errs = append(*errs, err.Error())
			return applied, failed
		}
		applied++
	}
	return applied, failed
}

// dispatch sends one queue item to the remote service.
func (m *Manager) dispatch(ctx context.Context, item *models.SyncQueueItem) error {
	switch item.Op {
	case models.OpInsert:
		return m.service.Insert(ctx, item.Table, item.Data)
	case models.OpUpdate:
		id, err := payloadID(item.Data)
		if err != nil {
			return err
		}
		return m.service.Update(ctx, item.Table, id, item.Data)
	case models.OpDelete:
		id, err := payloadID(item.Data)
		if err != nil {
			return err
		}
		return m.service.Delete(ctx, item.Table, id)
	default:
		return fmt.Errorf("unknown operation %q", item.Op)
	}
}

// payloadID extracts the primary key carried in an update/delete payload.
func payloadID(data json.RawMessage) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("decode payload id: %w", err)
	}
	if probe.ID == "" {
		return "", fmt.Errorf("payload has no id")
	}
	return probe.ID, nil
}

// StartAutoSync begins periodic background sync. It performs one pass
// immediately, then repeats every interval (DefaultInterval when interval
// is zero). Calling it while a timer is already active is a no-op.
func (m *Manager) StartAutoSync(interval time.Duration) {
	if interval <= 0 {
		interval = m.interval
	}

	m.autoMu.Lock()
	defer m.autoMu.Unlock()
	if m.autoCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.autoCancel = cancel
	m.autoDone = make(chan struct{})
	go m.autoLoop(ctx, interval, m.autoDone)
}

func (m *Manager) autoLoop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	// Passes run on a background context: StopAutoSync prevents future
	// passes but must not interrupt one already in flight.
	m.SyncAll(context.Background())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SyncAll(context.Background())
		}
	}
}

// StopAutoSync cancels the auto-sync timer and waits for the loop to exit.
// Safe to call when not running. An in-flight pass is never interrupted;
// the wait covers it finishing on its own.
func (m *Manager) StopAutoSync() {
	m.autoMu.Lock()
	defer m.autoMu.Unlock()
	if m.autoCancel == nil {
		return
	}
	m.autoCancel()
	m.autoCancel = nil
	<-m.autoDone
}
