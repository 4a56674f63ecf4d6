// Package migrations embeds the schema migrations for every supported driver.
package migrations

import "embed"

// FS holds postgres/*.sql and oracle/*.sql, named <version>_<title>.<up|down>.sql.
//
//go:embed postgres/*.sql oracle/*.sql
var FS embed.FS
