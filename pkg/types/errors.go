package types

import "errors"

// Configuration errors.
var (
	// ErrTokenEmpty indicates the config carries no session token.
	ErrTokenEmpty = errors.New("token is empty")
	// ErrUserIDEmpty indicates the config carries no user id.
	ErrUserIDEmpty = errors.New("user id is empty")
)

// Table resolution errors.
var (
	// ErrNoTable indicates the page holds no collection view.
	ErrNoTable = errors.New("no table on page")
	// ErrAmbiguousTable indicates the page holds more than one collection
	// view and the caller must pick one explicitly.
	ErrAmbiguousTable = errors.New("more than one table on page")
	// ErrKeyNotCached indicates the key cache holds no entry for the url.
	ErrKeyNotCached = errors.New("table keys not cached")
)

// Value errors.
var (
	// ErrUnknownColumn indicates a display name absent from the schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrInvalidDate indicates a date value that cannot be normalized.
	ErrInvalidDate = errors.New("invalid date value")
	// ErrInvalidValue indicates a value of the wrong shape for its column
	// type.
	ErrInvalidValue = errors.New("invalid value for column type")
)
