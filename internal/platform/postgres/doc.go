// Package postgres provides PostgreSQL implementations of the interfaces in
// internal/store. Stores run on database/sql with the pgx stdlib driver and
// accept any store.DBTX, so they work on the pool or inside a transaction.
//
// The schema is embedded and applied with goose; see Migrate.
package postgres
