// Package validate holds boundary validation rules shared by the HTTP
// handlers: password policy and email format.
package validate

import "regexp"

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*]`)
)

// Password checks the policy: minimum length 8 and at least one uppercase
// letter, lowercase letter, digit and special character from !@#$%^&*.
// Every failing rule is reported, not just the first.
func Password(password string) []string {
	var violations []string
	if len(password) < 8 {
		violations = append(violations, "Password must be at least 8 characters")
	}
	if !upperRe.MatchString(password) {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		violations = append(violations, "Password must contain at least one number")
	}
	if !specialRe.MatchString(password) {
		violations = append(violations, "Password must contain at least one special character")
	}
	return violations
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}
