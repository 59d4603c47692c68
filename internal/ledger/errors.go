package ledger

import "errors"

// ErrNotFound marks lookups and mutations that name an id or taxonomy
// entry the store does not hold.
var ErrNotFound = errors.New("not found")
