package services

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/nelttjen/chat-platform-api/internal/constants"
)

var (
	ErrUsernameFormatInvalid = errors.New("username must be 4-32 characters of letters, digits, underscores or dashes")
	ErrEmailFormatInvalid    = errors.New("email address is invalid")
	ErrPasswordPolicy        = errors.New("password does not meet the password policy")
)

var usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,32}$`)

const (
	passwordLower    = "abcdefghijklmnopqrstuvwxyz"
	passwordUpper    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	passwordSpecials = "0123456789#@$=_+*&^%"
)

// ValidateUsername checks the username format.
func ValidateUsername(username string) error {
	if !usernameRegexp.MatchString(username) {
		return ErrUsernameFormatInvalid
	}
	return nil
}

// ValidateEmail checks that the email is a parseable bare address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailFormatInvalid
	}
	return nil
}

// ValidatePassword enforces the strong-password policy: bounded length, no
// username or email embedded in the password, and at least one lowercase,
// one uppercase and one digit-or-special character.
func ValidatePassword(password, username, email string) error {
	if len(password) < constants.MinPasswordLength || len(password) > constants.MaxPasswordLength {
		return fmt.Errorf("%w: length must be between %d and %d characters",
			ErrPasswordPolicy, constants.MinPasswordLength, constants.MaxPasswordLength)
	}

	lowered := strings.ToLower(password)
	if username != "" && strings.Contains(lowered, strings.ToLower(username)) {
		return fmt.Errorf("%w: must not contain the username", ErrPasswordPolicy)
	}
	if email != "" && strings.Contains(lowered, strings.ToLower(email)) {
		return fmt.Errorf("%w: must not contain the email", ErrPasswordPolicy)
	}

	if !strings.ContainsAny(password, passwordLower) ||
		!strings.ContainsAny(password, passwordUpper) ||
		!strings.ContainsAny(password, passwordSpecials) {
		return fmt.Errorf("%w: needs a lowercase letter, an uppercase letter and a digit or special character",
			ErrPasswordPolicy)
	}

	return nil
}
