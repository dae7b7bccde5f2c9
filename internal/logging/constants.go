package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldFile      = "file_path"
	FieldEngine    = "ocr_engine"
	FieldLine      = "line"
	FieldLineNo    = "line_no"
	FieldDate      = "date"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldScore     = "score"
	FieldReason    = "reason"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldDelimiter = "delimiter"
	FieldWorkers   = "workers"
	FieldComponent = "component"
)
