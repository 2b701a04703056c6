// Package validator provides a small rule-based validation engine.
//
// Rules are plain values combining a check closure with the error to report
// when it fails; Apply runs them and collects every failure into a single
// ValidationErrors value, so callers can surface all problems at once:
//
//	if err := validator.Apply(
//	    validator.ValidEmail("email", email),
//	    validator.StrongPassword("password", password, validator.DefaultPasswordStrength()),
//	); err != nil {
//	    return err // ValidationErrors, detectable via validator.IsValidationError
//	}
package validator
