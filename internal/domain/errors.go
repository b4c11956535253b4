package domain

import "fmt"

// Error is a domain-level failure that handlers translate into a structured
// JSON response. Status is the HTTP status the REST surface maps it to.
type Error struct {
	Code        string
	Description string
	Status      int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

var (
	// ErrInvalidCredentials covers both "unknown email" and "wrong password".
	// The two causes are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = &Error{Code: "invalid_credentials", Description: "Credentials are not valid.", Status: 422}

	// ErrAccountNotActive means the credentials were correct but the account
	// is deactivated or its email is not verified yet.
	ErrAccountNotActive = &Error{Code: "account_not_active", Description: "Account is not active.", Status: 403}

	// ErrTokenExpired is a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = &Error{Code: "token_expired", Description: "Token expired.", Status: 401}

	// ErrTokenInvalid is a malformed or tampered token, or one signed under a
	// different secret.
	ErrTokenInvalid = &Error{Code: "token_invalid", Description: "Could not validate credentials.", Status: 403}

	// ErrInvalidToken is the verification-specific identity mismatch: the
	// account found by the token's email claim no longer carries the id the
	// token was minted for.
	ErrInvalidToken = &Error{Code: "invalid_token", Description: "Verification token does not match the account.", Status: 403}

	// ErrAlreadyActivated rejects redeeming a verification token twice.
	ErrAlreadyActivated = &Error{Code: "already_activated", Description: "Account is already activated.", Status: 403}

	ErrWeakPassword     = &Error{Code: "weak_password", Description: "Length password must be >= 4.", Status: 422}
	ErrPasswordMismatch = &Error{Code: "password_mismatch", Description: "Passwords do not match.", Status: 422}
	ErrUserExists       = &Error{Code: "user_exists", Description: "User with this email already exists.", Status: 422}

	ErrNotFound  = &Error{Code: "not_found", Description: "Resource not found.", Status: 404}
	ErrForbidden = &Error{Code: "forbidden", Description: "You are not the author of this resource.", Status: 403}
)
