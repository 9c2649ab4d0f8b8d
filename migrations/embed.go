// Package migrations embeds the versioned SQL schema so binaries can migrate
// without a migrations directory on disk.
package migrations

import "embed"

// FS holds the NNNNNN_name.up.sql / .down.sql pairs.
//
//go:embed *.sql
var FS embed.FS
