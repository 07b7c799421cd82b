package application

import "errors"

// ErrFetch marks failures to obtain a quote from the external source: network
// errors, timeouts and non-success statuses. Callers map it to 503.
var ErrFetch = errors.New("fetch quote")

// ErrStorage marks failures of the observation store.
var ErrStorage = errors.New("storage")
