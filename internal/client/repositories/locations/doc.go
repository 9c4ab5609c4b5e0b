// Package locations keeps the last successfully loaded catalog on disk so the
// client can show it before (or instead of) a fresh fetch.
//
// The table mirrors the in-memory catalog exactly: ReplaceAll swaps the whole
// set in one transaction, Put appends or updates a single record, Delete
// removes one. Records keep their catalog order through a position column.
package locations
