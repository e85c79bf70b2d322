package types

import "errors"

// Lookup errors. Store mutations never return these; an update or delete of
// an absent id is a silent no-op. Front ends use ErrNotFound to report a
// missing recipe to the user.
var (
	ErrNotFound    = errors.New("recipe not found")
	ErrInvalidID   = errors.New("invalid recipe ID")
	ErrInvalidData = errors.New("invalid recipe data")
)

// Persistence errors.
var (
	ErrNoState      = errors.New("no persisted state")
	ErrStoreClosed  = errors.New("persister is closed")
	ErrCorruptState = errors.New("persisted state is corrupt")
)
