package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRunID         = "run_id"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldCategory      = "category"
	FieldCell          = "cell"
	FieldSheet         = "sheet"
	FieldReferenceDate = "reference_date"
	FieldOutcome       = "outcome"
	FieldValue         = "value"
	FieldDryRun        = "dry_run"
	FieldChatID        = "chat_id"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentReconciler = "reconciler"
	ComponentRun        = "run"
	ComponentStorage    = "storage"
	ComponentSheets     = "sheets"
	ComponentTelegram   = "telegram"
	ComponentAMQP       = "amqp"
	ComponentBackend    = "backend"
	ComponentConfig     = "config"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpWrite     = "write"
	OpParse     = "parse"
	OpReconcile = "reconcile"
	OpReport    = "report"
	OpPublish   = "publish"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithError adds the error message; nil errors are ignored
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithCell adds the category, reference date and resolved cell of a reconcile step
func (f LogFields) WithCell(category, referenceDate, cell string) LogFields {
	f[FieldCategory] = category
	f[FieldReferenceDate] = referenceDate
	f[FieldCell] = cell
	return f
}

func (f LogFields) WithOutcome(outcome string) LogFields {
	f[FieldOutcome] = outcome
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
