// Package migrations embeds the database schema migrations applied on
// server startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
