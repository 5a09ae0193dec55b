// Package schemas embeds the SQL migrations of the recall database.
package schemas

import "embed"

// MigrationsDir is the directory inside Migrations holding the *.sql files.
const MigrationsDir = "migrations"

// Migrations holds every migration, applied in lexical file order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
