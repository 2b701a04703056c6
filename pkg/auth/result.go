package auth

// Outcome is the decision of an authentication attempt.
//
// The zero value is OutcomeDeny so that a forgotten assignment fails closed.
type Outcome int

const (
	// OutcomeDeny rejects the attempt. Wrong password and unknown email are
	// deliberately indistinguishable to the caller.
	OutcomeDeny Outcome = iota
	// OutcomeConflict rejects the attempt because the identity is owned by
	// other method(s); the result carries which ones.
	OutcomeConflict
	// OutcomeAllow accepts the attempt and carries the identity.
	OutcomeAllow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeConflict:
		return "conflict"
	default:
		return "deny"
	}
}

// AuthResult is the tagged outcome of an authentication attempt.
//
// It replaces the error-channel signaling some frameworks use for the
// conflict case: Deny and Conflict are ordinary control outcomes, never
// errors, so they cannot escape through a generic failure path and lose
// their payload on the way.
type AuthResult struct {
	outcome       Outcome
	identity      *Identity
	owningMethods []string
}

// Allow builds an allowing result carrying the authenticated identity.
func Allow(identity *Identity) AuthResult {
	return AuthResult{outcome: OutcomeAllow, identity: identity}
}

// Deny builds a denying result. No cause is recorded on purpose.
func Deny() AuthResult {
	return AuthResult{outcome: OutcomeDeny}
}

// Conflict builds a conflicting result naming the method(s) that own the
// identity the attempt collided with.
func Conflict(owningMethods ...string) AuthResult {
	return AuthResult{outcome: OutcomeConflict, owningMethods: owningMethods}
}

// Outcome returns the decision tag.
func (r AuthResult) Outcome() Outcome { return r.outcome }

// Allowed reports whether the attempt was accepted.
func (r AuthResult) Allowed() bool { return r.outcome == OutcomeAllow }

// Denied reports whether the attempt was rejected without detail.
func (r AuthResult) Denied() bool { return r.outcome == OutcomeDeny }

// Conflicted reports whether the attempt collided with another method.
func (r AuthResult) Conflicted() bool { return r.outcome == OutcomeConflict }

// Identity returns the authenticated identity; non-nil only on Allow.
func (r AuthResult) Identity() *Identity { return r.identity }

// OwningMethods returns the methods owning the identity; non-empty only on
// Conflict. The order matches the identity's stored link order.
func (r AuthResult) OwningMethods() []string { return r.owningMethods }
