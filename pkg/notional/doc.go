// Package notional is a client for block-structured table backends: it
// resolves page URLs to tables, decodes schema-typed rows into plain Go
// values, and writes row changes as ordered, atomic operation batches.
package notional
