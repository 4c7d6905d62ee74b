package batches

import "errors"

// ErrBatchNotFound is returned when no batch matches the lookup
var ErrBatchNotFound = errors.New("batch not found")
