package db

import "embed"

// EmbedMigrations содержит SQL-миграции схемы
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS
