package newsdesk

import "errors"

// Exported errors for library consumers.
var (
	// ErrNoDatabase indicates no database was configured.
	ErrNoDatabase = errors.New("newsdesk: no database configured")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("newsdesk: client is closed")
)
