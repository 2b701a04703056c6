// Package email provides outbound transactional email for the auth flows.
//
// The package exposes a single EmailSender interface with two
// implementations: a Postmark client for production and a file-based
// DevSender for local development. Message composition lives alongside the
// transport; NewResetPasswordEmail builds the password reset message with
// its single-use link.
package email
