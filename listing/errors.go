package listing

import "errors"

// ErrClosed is returned by NextBatch once the iterator has entered its
// error state (a prior call returned an error, or Close was called). An
// iterator that has surfaced an error must not be called again.
var ErrClosed = errors.New("listing: iterator is closed or in an error state")
