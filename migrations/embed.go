// Package migrations embeds the SQL schema files for each database back end.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
