// Package database provides the SQLite store behind the bus address
// recorder.
//
// The connection is opened with a single writer, an optional WAL journal
// and a busy timeout. Schema changes are plain SQL files applied in
// version order by Migrate and tracked in schema_migrations:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
package database
