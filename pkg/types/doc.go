// Package types defines the shared data model for the Notional client:
// column types, schema entries, rich-text segments, operations and
// transactions, user records, configuration, and standard error values.
package types
