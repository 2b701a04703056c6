// Package sanitizer normalizes untrusted input before it reaches validation
// or storage. Email normalization here is the single place that decides what
// "the same email" means across sign-up, sign-in and password reset.
package sanitizer
