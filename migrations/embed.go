// Package migrations holds the versioned PostgreSQL schema.
package migrations

import "embed"

// FS contains every NNNN_name.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
