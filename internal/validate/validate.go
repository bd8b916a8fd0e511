// Package validate holds the pure field checks used by the signup pipeline.
// Each check returns nil on success or an error describing the rejection.
package validate

import (
	"errors"
	"regexp"
)

var (
	ErrName     = errors.New("name must be 1 to 15 letters")
	ErrEmail    = errors.New("email must be an address at gmail.com, yahoo.com or outlook.com")
	ErrPassword = errors.New("password must be at least 8 characters with a lower case letter, an upper case letter, a digit and one of @$!%*?&")
	ErrUsername = errors.New("username must be at least 6 characters of a-z, 0-9, _ or .")
)

// PasswordSymbols is the set of symbols a password must draw at least one from.
const PasswordSymbols = "@$!%*?&"

var (
	namePattern     = regexp.MustCompile(`^[a-zA-Z]{1,15}$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{6,}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@(?:gmail|yahoo|outlook)\.com$`)

	// RE2 has no lookahead, so the password rule is a charset match plus
	// one presence check per required class.
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*?&]`),
	}
)

// Name checks a first or last name.
func Name(s string) error {
	if !namePattern.MatchString(s) {
		return ErrName
	}
	return nil
}

// Email checks that s is an address at one of the accepted providers.
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrEmail
	}
	return nil
}

// Password checks length, allowed characters and required character classes.
func Password(s string) error {
	if !passwordCharset.MatchString(s) {
		return ErrPassword
	}
	for _, re := range passwordClasses {
		if !re.MatchString(s) {
			return ErrPassword
		}
	}
	return nil
}

// Username checks the username format. The signup pipeline only calls it
// when username enforcement is configured.
func Username(s string) error {
	if !usernamePattern.MatchString(s) {
		return ErrUsername
	}
	return nil
}
