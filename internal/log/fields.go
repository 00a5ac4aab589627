package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldEntryID    = "entry_id"
	FieldUserEmail  = "email"
	FieldRole       = "role"
	FieldOrigin     = "origin"
	FieldBackend    = "backend"
)

// Standard component names.
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentStore  = "store"
	ComponentAuth   = "auth"
	ComponentAMQP   = "amqp"
	ComponentWorker = "worker"
)
