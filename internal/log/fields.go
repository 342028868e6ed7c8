package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserAgent = "user_agent"
	FieldError     = "error"
	FieldLevel     = "level"
	FieldMonth     = "month"
	FieldBranch    = "branch"
	FieldRM        = "rm"
	FieldQuarter   = "quarter"
	FieldProduct   = "product"
	FieldRecords   = "records"
	FieldFetchedAt = "fetched_at"
	FieldBackend   = "backend"
)

// Standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
)
