// Package database handles the optional journal database connection and
// schema inspection.
//
// It wraps GORM and configures either MySQL or a local SQLite file based on
// the application's configuration.
//
// # Connect
//
// Connect opens and pings the database. The journal is optional: callers log
// a connection failure and keep syncing without it.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table layout so the status
// API can report a journal whose schema has drifted from the models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Journal disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "cycle_runs", []string{"cycle_id"})
package database
