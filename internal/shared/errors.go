package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Record store errors
	ErrStoreUnavailable = fmt.Errorf("record store unavailable")
	ErrRecordNotFound   = fmt.Errorf("record not found")

	// Extraction errors
	ErrExtraction         = fmt.Errorf("metadata extraction failed")
	ErrUnsupportedLocator = fmt.Errorf("unsupported locator")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Batch errors
	ErrBatchAborted      = fmt.Errorf("batch aborted")
	ErrSchedulerStopped  = fmt.Errorf("scheduler stopped")
	ErrEmptyBatch        = fmt.Errorf("batch contains no identifiers")
	ErrInvalidActiveItem = fmt.Errorf("active index out of range")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
