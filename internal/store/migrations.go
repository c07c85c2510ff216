package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per completed (or abandoned)
		// experiment run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			experiment TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			duration_s REAL NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT '{}'
		)`,

		// Session events table - the notable moments within a session
		`CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			at_s REAL NOT NULL,
			detail TEXT NOT NULL DEFAULT '{}'
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for the session browser queries
		`CREATE INDEX IF NOT EXISTS idx_sessions_experiment ON sessions(experiment)`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_session_id ON session_events(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
