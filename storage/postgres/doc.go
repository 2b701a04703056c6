// Package postgres provides the PostgreSQL-backed identity and reset
// token stores. Schema lives in the migrations directory alongside this
// package and is applied with pg.Migrate.
package postgres
