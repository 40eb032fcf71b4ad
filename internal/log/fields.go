package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldPath       = "path"
	FieldRows       = "rows"
	FieldFamily     = "family"
	FieldDuration   = "duration_ms"
	FieldR2         = "r2"
	FieldMAE        = "mae"
	FieldRMSE       = "rmse"
	FieldField      = "field"
	FieldValue      = "value"
	FieldCount      = "count"
	FieldRunID      = "run_id"
	FieldTrainRows  = "train_rows"
	FieldTestRows   = "test_rows"
	FieldParseError = "parse_errors"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentSource   = "source"
	ComponentFeatures = "features"
	ComponentTrain    = "train"
	ComponentPredict  = "predict"
	ComponentStore    = "store"
	ComponentRegistry = "registry"
)
