// Package migrations embeds the goose SQL migrations. The statements are
// written to run unchanged on MySQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
