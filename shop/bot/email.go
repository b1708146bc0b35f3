package bot

import "regexp"

// emailPattern accepts "local@domain" where local is [A-Za-z0-9+_.-]+ and
// domain is [A-Za-z0-9.-]+, anchored at both ends. Intentionally loose:
// the CMS is the authority on what it accepts.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)

// ValidEmail reports whether s fully matches the email pattern.
// No trimming: trailing whitespace fails the match.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
