package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldEntity      = "entity"
	FieldEntityID    = "entity_id"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldSubCategory = "sub_category"
	FieldSnapshotKey = "snapshot_key"
)

// Standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentFinance  = "finance"
	ComponentEvents   = "events"
	ComponentWorker   = "worker"
	ComponentInsights = "insights"
)
