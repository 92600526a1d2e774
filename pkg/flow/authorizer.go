package flow

import "fmt"

// Authorizer decides whether an accessor holds a permission.
type Authorizer interface {
	Authorized(accessor *Namespace, permission string) bool
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(accessor *Namespace, permission string) bool

func (f AuthorizerFunc) Authorized(accessor *Namespace, permission string) bool {
	return f(accessor, permission)
}

// AllowAll authorizes every permission.
var AllowAll Authorizer = AuthorizerFunc(func(*Namespace, string) bool { return true })

// Allowed applies a to permission. An empty permission is always granted,
// as is any permission when a is nil.
func Allowed(a Authorizer, accessor *Namespace, permission string) bool {
	if permission == "" || a == nil {
		return true
	}
	return a.Authorized(accessor, permission)
}

// NotAuthorizedError is returned when the accessor lacks a command's
// permission.
type NotAuthorizedError struct {
	Command    *Command
	Permission string
	Message    string
}

func (e *NotAuthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Command != nil {
		return fmt.Sprintf("not authorized to use %q (requires %s)", e.Command.Name(), e.Permission)
	}
	return fmt.Sprintf("not authorized (requires %s)", e.Permission)
}

// NewNotAuthorizedError builds the error for command.
func NewNotAuthorizedError(command *Command) *NotAuthorizedError {
	return &NotAuthorizedError{
		Command:    command,
		Permission: command.Permission(),
		Message:    command.PermissionMessage(),
	}
}
