package sync

// Status is a read-only snapshot of the offline engine. Purely
// observational; taking one has no side effects.
type Status struct {
	IsOnline         bool  `json:"is_online"`
	PendingPhotos    int64 `json:"pending_photos"`
	PendingSync      int64 `json:"pending_sync"`
	StorageUsed      int64 `json:"storage_used"`
	StorageAvailable int64 `json:"storage_available"`
}

// Status reports connectivity, backlog sizes, and a storage estimate.
// Without a quota estimator the available half is 0 and used falls back to
// the database file size.
func (m *Manager) Status() (*Status, error) {
	pendingPhotos, err := m.store.CountPendingPhotos()
	if err != nil {
		return nil, err
	}
	pendingSync, err := m.store.CountQueueItems()
	if err != nil {
		return nil, err
	}

	var used, available int64
	if m.quota != nil {
		used, available = m.quota.Estimate()
	} else {
		used = m.store.StorageUsed()
	}

	return &Status{
		IsOnline:         m.gate.Online(),
		PendingPhotos:    pendingPhotos,
		PendingSync:      pendingSync,
		StorageUsed:      used,
		StorageAvailable: available,
	}, nil
}
