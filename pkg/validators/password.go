package validators

import "errors"

var (
	ErrPasswordTooShort = errors.New("password must be at least 5 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

const (
	minPasswordLength = 5
	maxPasswordLength = 255
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < minPasswordLength {
		return ErrPasswordTooShort
	}

	if len(p) > maxPasswordLength {
		return ErrPasswordTooLong
	}

	return nil
}
