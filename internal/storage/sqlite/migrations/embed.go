package migrations

import "embed"

// FS contains embedded SQLite migrations for the chess store.
//
//go:embed *.sql
var FS embed.FS
