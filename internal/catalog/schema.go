package catalog

import "database/sql"

type migration struct {
	version int
	up      []string
}

var migrations = []migration{
	{
		version: 1,
		up: []string{
			`CREATE TABLE entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,

				external_id TEXT NOT NULL,
				title TEXT NOT NULL,
				title_normalized TEXT NOT NULL,
				year INTEGER NOT NULL DEFAULT 0,
				content_type TEXT NOT NULL DEFAULT 'unknown',

				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,

				UNIQUE(external_id)
			)`,

			`CREATE INDEX idx_entries_normalized ON entries(title_normalized)`,
			`CREATE INDEX idx_entries_normalized_year ON entries(title_normalized, year)`,

			`CREATE TABLE aliases (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entry_id INTEGER NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
				alias TEXT NOT NULL,
				alias_normalized TEXT NOT NULL,

				UNIQUE(entry_id, alias_normalized)
			)`,

			`CREATE INDEX idx_aliases_normalized ON aliases(alias_normalized)`,

			`CREATE TABLE schema_version (
				version INTEGER NOT NULL
			)`,
			`INSERT INTO schema_version (version) VALUES (1)`,
		},
	},
}

func applyMigrations(db *sql.DB) error {
	var currentVersion int
	err := db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		// schema_version doesn't exist yet - fresh database
		currentVersion = 0
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		for _, stmt := range m.up {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
