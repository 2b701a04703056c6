// Package pg provides PostgreSQL connectivity: pooled connections with
// startup retry, goose schema migrations, a health check, and error
// classification helpers used by the storage layer to map driver errors
// onto domain errors.
package pg
