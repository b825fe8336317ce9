// Package catalog persists built songs and scoring runs in SQLite.
//
// The database lives at paths.catalog_path (default data_dir/catalog.db)
// and is opened in WAL mode with a busy timeout; writes retry on
// SQLITE_BUSY so a build and a score can run side by side.
package catalog
