package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldPath      = "path"
	FieldAccount   = "account"
	FieldPeriod    = "period"
	FieldRows      = "rows"
	FieldDetected  = "detected"
	FieldImported  = "imported"
	FieldDuplicate = "duplicates"
	FieldObject    = "object"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStore     = "csvstore"
	ComponentImporter  = "importer"
	ComponentStatement = "statement"
	ComponentSettings  = "settings"
	ComponentBackup    = "backup"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpAppend    = "append"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpOverwrite = "overwrite"
	OpImport    = "import"
	OpArchive   = "archive"
	OpRestore   = "restore"
	OpStartup   = "startup"
)
