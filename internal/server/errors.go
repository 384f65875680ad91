package server

import "errors"

// Sentinel errors for submission-time failures the handlers translate to
// 400 responses. UnknownProcessor and DimensionOutOfRange already carry
// their own sentinels in registry and options.
var (
	ErrExtensionNotAccepted = errors.New("server: file extension not accepted by processor")
	ErrMalformedOptions     = errors.New("server: options is not valid JSON")
	ErrMissingResult        = errors.New("server: result not available")
	ErrNoFilesSubmitted     = errors.New("server: no files submitted")
)
