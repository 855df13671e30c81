// Package store persists experiment tables: WriteCSV streams a table for
// external plotting, SQLite keeps every run with its rows so that runs
// can be listed and reloaded later.
package store
