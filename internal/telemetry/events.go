package telemetry

import (
	"runtime"

	"github.com/motoriq/fieldsync/pkg/version"
)

// Event names - CLI
const (
	EventAppStarted         = "app_started"
	EventAppExited          = "app_exited"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
)

// Event names - sync engine
const (
	EventSyncCompleted       = "sync_completed"
	EventSyncSkipped         = "sync_skipped"
	EventRetryExhausted      = "retry_exhausted"
	EventPhotoUploaded       = "photo_uploaded"
	EventWorkOrderDownloaded = "work_order_downloaded"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Short(),
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// --- CLI Tracking Methods ---

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(hasRemote bool) {
	props := baseProperties()
	props["has_remote"] = hasRemote
	c.Track(EventAppStarted, props)
}

// TrackAppExited tracks application exit.
func (c *posthogClient) TrackAppExited(sessionDurationMs int64) {
	props := baseProperties()
	props["session_duration_ms"] = sessionDurationMs
	c.Track(EventAppExited, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks CLI errors.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// --- Sync Engine Tracking Methods ---

// TrackSyncCompleted tracks the outcome of one sync pass.
func (c *posthogClient) TrackSyncCompleted(photosUploaded, mutationsApplied, mutationsFailed int, durationMs int64) {
	props := baseProperties()
	props["photos_uploaded"] = photosUploaded
	props["mutations_applied"] = mutationsApplied
	props["mutations_failed"] = mutationsFailed
	props["duration_ms"] = durationMs
	c.Track(EventSyncCompleted, props)
}

// TrackSyncSkipped tracks a sync pass blocked by a precondition.
func (c *posthogClient) TrackSyncSkipped(reason string) {
	props := baseProperties()
	props["reason"] = reason
	c.Track(EventSyncSkipped, props)
}

// TrackRetryExhausted tracks a mutation dropped at the retry ceiling.
// No payload contents are sent, only the table and operation kind.
func (c *posthogClient) TrackRetryExhausted(table, operation string, retries int) {
	props := baseProperties()
	props["table"] = table
	props["operation"] = operation
	props["retries"] = retries
	c.Track(EventRetryExhausted, props)
}

// TrackPhotoUploaded tracks a successful photo binary upload.
func (c *posthogClient) TrackPhotoUploaded(sizeBytes int, hasSession bool) {
	props := baseProperties()
	props["size_bytes"] = sizeBytes
	props["has_session"] = hasSession
	c.Track(EventPhotoUploaded, props)
}

// TrackWorkOrderDownloaded tracks an offline prefetch.
func (c *posthogClient) TrackWorkOrderDownloaded(sessions, procedures int) {
	props := baseProperties()
	props["session_count"] = sessions
	props["procedure_count"] = procedures
	c.Track(EventWorkOrderDownloaded, props)
}
