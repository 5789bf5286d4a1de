package logging

// Standardized structured logging keys.
const (
	FieldComponent   = "component"
	FieldEventType   = "event_type"
	FieldErrorHint   = "error_hint"
	FieldImpact      = "impact"
	FieldRunID       = "run_id"
	FieldFile        = "file"
	FieldCategory    = "category"
	FieldDestination = "destination"
	FieldReason      = "reason"
	FieldMode        = "mode"
)
