// Package redis provides a Redis-backed reset token store for deployments
// that prefer keeping short-lived tokens out of the relational database.
package redis
