package migrations

import "embed"

// Schema migrations for rule and audit storage, embedded so the envgroom
// binary carries its own schema.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
