package backend

import (
	"errors"
	"strings"
)

// Kind classifies a normalized portal error. Views only ever display the
// message; the kind exists so the command layer can react (force logout,
// silently degrade, pick a modal) without inspecting transport details.
type Kind int

const (
	// KindServer is a response carrying an error payload.
	KindServer Kind = iota
	// KindTransport means no response was reachable at all.
	KindTransport
	// KindAuthentication is a failed login.
	KindAuthentication
	// KindNotFound covers missing resources and forbidden reads.
	KindNotFound
	// KindSessionExpired is a credential rejection outside of login; the
	// caller must force a logout.
	KindSessionExpired
)

// Generic user-facing fallback messages, used when the backend did not
// provide one.
const (
	msgTransport = "No se pudo conectar con el servidor"
	msgServer    = "Error al procesar la solicitud"
	msgAuth      = "Error de autenticación"
	msgExpired   = "Su sesión ha expirado. Inicie sesión nuevamente"
)

// Error is the single normalized error value every service-boundary
// failure is reduced to before reaching view logic.
type Error struct {
	Kind       Kind
	Message    string // human-readable, shown verbatim
	Code       string // structured backend error code, when provided
	StatusCode int    // HTTP status, 0 for transport failures
}

func (e *Error) Error() string {
	return e.Message
}

// IsSessionExpired reports whether err demands a forced logout.
func IsSessionExpired(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindSessionExpired
}

// IsNotFound reports whether err is a missing/forbidden resource.
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindNotFound
}

// inactiveAccountCode is the structured code the backend contract should
// return for deactivated accounts.
const inactiveAccountCode = "ACCOUNT_INACTIVE"

// inactiveSubstrings is the documented fallback when the backend answers
// with a bare message. Inherited from the portal's original behavior;
// the exact set still needs confirmation from the backend team.
var inactiveSubstrings = []string{"inactive", "desactiv"}

// IsInactiveAccount reports whether a login failure means the account is
// deactivated (as opposed to plain bad credentials). The structured code
// is authoritative; substring matching on the message is the fallback.
func IsInactiveAccount(err error) bool {
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	if pe.Code == inactiveAccountCode {
		return true
	}
	msg := strings.ToLower(pe.Message)
	for _, s := range inactiveSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
