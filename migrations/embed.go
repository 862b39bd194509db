// Package migrations embeds the SQL schema so the server binary can migrate
// its database without shipping a migrations directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
