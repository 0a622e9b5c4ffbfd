package ingest

import (
	"errors"
	"fmt"
)

// ErrAborted indicates the caller cancelled the run. Distinguished from
// failures so the UI can show a neutral "cancelled" message.
var ErrAborted = errors.New("ingestion aborted by caller")

// ErrAlreadyRunning indicates a second run was started while one is active.
var ErrAlreadyRunning = errors.New("an ingestion run is already in progress")

// IngestionError is a non-recoverable run fault. PartialOrders tells the
// caller how many unique orders were merged before the fault; the caller
// may persist that partial set at its discretion.
type IngestionError struct {
	PartialOrders int
	Err           error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed after %d orders: %v", e.PartialOrders, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
