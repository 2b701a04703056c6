// Package redis provides Redis connectivity with startup retry and a
// health check. The reset token store under storage/redis builds on the
// client returned here.
package redis
