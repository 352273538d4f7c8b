package services

import (
	"errors"
	"strings"
)

// User-visible validation failures.
var (
	ErrMissingFields    = errors.New("Please enter all fields")
	ErrPasswordMismatch = errors.New("Passwords do not match")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	ErrUsernameTooLong  = errors.New("Username must be less than 20 characters")
)

var (
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrStorage marks failures of the credential or post store. It is
	// always joined with one of the generic messages below.
	ErrStorage       = errors.New("storage failure")
	ErrCreateAccount = errors.New("Error creating user. Please try again.")
	ErrLogin         = errors.New("Error logging in. Please try again.")
	ErrCreatePost    = errors.New("Error creating post. Please try again.")
	ErrListPosts     = errors.New("Error loading posts. Please try again.")
)

// ValidationError collects every failed input rule of a single request.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		out = append(out, err.Error())
	}
	return out
}

type validator struct{ errs []error }

func (v *validator) check(ok bool, err error) {
	if !ok {
		v.errs = append(v.errs, err)
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: v.errs}
}

// storageErr keeps the underlying cause for logs while matching both
// ErrStorage and the user-facing sentinel.
func storageErr(public error, cause error) error {
	return errors.Join(ErrStorage, public, cause)
}

// UserMessages turns a service error into the messages shown on a form.
func UserMessages(err error) []string {
	var verr *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return verr.Messages()
	case errors.Is(err, ErrInvalidCredentials):
		return []string{ErrInvalidCredentials.Error()}
	}
	for _, public := range []error{ErrCreateAccount, ErrLogin, ErrCreatePost, ErrListPosts} {
		if errors.Is(err, public) {
			return []string{public.Error()}
		}
	}
	return []string{"Something went wrong. Please try again."}
}
