package migrations

import "embed"

// FS contains the SQLite leaderboard migrations.
//
//go:embed *.sql
var FS embed.FS
