package auth

import "errors"

// Decision is the authorization gate's verdict for a protected view.
type Decision int

const (
	// Allow renders the protected content.
	Allow Decision = iota
	// RedirectToLogin sends the caller to the login flow.
	RedirectToLogin
	// Deny renders the access-denied view (with only a "go back"
	// affordance).
	Deny
)

// Errors the command layer maps the non-Allow decisions to.
var (
	ErrLoginRequired = errors.New("debe iniciar sesión para acceder a esta sección")
	ErrAccessDenied  = errors.New("no tiene permisos para acceder a esta página")
)

// Authorize decides the outcome for a protected view. No required roles
// means "any authenticated identity"; an empty set is equivalent to no
// requirement, never "deny all".
func Authorize(session *Session, requiredRoles ...string) Decision {
	if !session.IsAuthenticated() {
		return RedirectToLogin
	}
	if len(requiredRoles) > 0 && !session.HasAnyRole(requiredRoles) {
		return Deny
	}
	return Allow
}

// Guard is Authorize for callers that want an error instead of a
// Decision: nil on Allow, ErrLoginRequired or ErrAccessDenied otherwise.
func Guard(session *Session, requiredRoles ...string) error {
	switch Authorize(session, requiredRoles...) {
	case RedirectToLogin:
		return ErrLoginRequired
	case Deny:
		return ErrAccessDenied
	default:
		return nil
	}
}
