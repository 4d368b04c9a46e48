// Package migrations embeds the SQL schema migrations into the binary, so
// the monitor can create its database without files on disk.
package migrations

import "embed"

// FS holds the *.up.sql migration files.
//
//go:embed *.sql
var FS embed.FS
