// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
	ErrEmailTooLong = errors.New("email address is too long")
)

const maxEmailLength = 225

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > maxEmailLength {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail lowercases the domain part of an address. The local part is
// left untouched since some providers treat it as case sensitive
func NormalizeEmail(e string) string {
	e = strings.TrimSpace(e)

	at := strings.LastIndex(e, "@")
	if at < 0 {
		return e
	}

	return e[:at] + strings.ToLower(e[at:])
}
