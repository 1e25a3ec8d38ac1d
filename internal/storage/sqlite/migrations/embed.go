package migrations

import "embed"

// FS contains embedded SQLite migrations for studyhall storage.
//
//go:embed *.sql
var FS embed.FS
