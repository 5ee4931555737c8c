// Package migrations embeds the schema applied by the migrate command.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
