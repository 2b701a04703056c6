// Package auth implements identity reconciliation between credential and
// federated sign-in, password reset tokens, and session issuance.
//
// Every authentication attempt funnels through a Reconciler, which answers
// with a typed AuthResult: Allow carrying the identity, Deny with no
// detail, or Conflict naming the method(s) that already own the email. The
// conflict outcome is symmetric: a password attempt against an OAuth-only
// identity and an OAuth attempt against a password-owning identity both
// surface as Conflict, so callers route users to the right sign-in path
// with one code path.
//
// ResetManager issues single-use, time-boxed password reset tokens with at
// most one live token per email, and SessionIssuer turns an Allow result
// into signed session claims. Storage is abstracted behind IdentityStore
// and ResetTokenStore; Postgres and Redis implementations live under
// storage/.
package auth
