package handler

const (
	// APIRootPath is the root path for the accounts API route group.
	APIRootPath = "/api/user"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
