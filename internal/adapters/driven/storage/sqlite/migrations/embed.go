// Package migrations embeds the token cache schema migrations.
package migrations

import "embed"

// FS contains the versioned *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
