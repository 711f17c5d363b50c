package domain

import "errors"

// Repository-level sentinel errors. Services translate these into APIErrors;
// the HTTP boundary maps anything else to a 500.
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrPostNotFound = errors.New("post not found")

// FieldProblem is one entry in the problem list attached to a 422 response.
type FieldProblem struct {
	Message string `json:"message"`
}

// APIError is a resolver-level failure carrying the wire status code and, for
// validation failures, the full list of field problems. It is raised once
// inside a resolver and formatted exactly once at the HTTP error boundary.
type APIError struct {
	Message string
	Status  int
	Data    []FieldProblem
}

func (e *APIError) Error() string {
	return e.Message
}

// NotAuthenticated is the guard failure every privileged resolver raises when
// the request context carries no verified identity.
func NotAuthenticated() *APIError {
	return &APIError{Message: "Not authenticated", Status: 401}
}

// NotAuthorized signals an authenticated caller that does not own the resource.
func NotAuthorized() *APIError {
	return &APIError{Message: "Not authorized", Status: 403}
}

// InvalidInput carries every accumulated validation failure at once.
func InvalidInput(problems []FieldProblem) *APIError {
	return &APIError{Message: "Invalid input", Status: 422, Data: problems}
}

// WrongCredentials deliberately does not reveal whether the email or the
// password was wrong.
func WrongCredentials() *APIError {
	return &APIError{Message: "Wrong email or password", Status: 401}
}

func UserExists() *APIError {
	return &APIError{Message: "User already exists", Status: 422}
}

func PostNotFound() *APIError {
	return &APIError{Message: "No post found", Status: 404}
}

// UserVanished covers the integrity anomaly of a valid token whose account no
// longer exists. Surfaced as the given status (401 during mutations that
// require a creator, 404 on profile reads) instead of crashing.
func UserVanished(status int) *APIError {
	return &APIError{Message: "No user found", Status: status}
}

func StatusTooShort() *APIError {
	return &APIError{Message: "Status length too short", Status: 406}
}

// TooManyLoginAttempts is raised by the Redis-backed login throttle.
func TooManyLoginAttempts() *APIError {
	return &APIError{Message: "Too many login attempts, try again later", Status: 429}
}
