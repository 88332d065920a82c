// Package guard decides, per navigation to a protected destination, whether
// to render it, redirect to login, or redirect to an unauthorized fallback.
//
// The decision is a pure function of the session snapshot and the
// destination's requirements; the guard mutates nothing.
package guard

import (
	"github.com/gadgetloop/storefront/internal/session"
)

// Well-known destinations the guard redirects to.
const (
	// LoginRoute is where anonymous visitors are sent.
	LoginRoute = "/login"
	// FallbackRoute is the default landing destination for authenticated
	// users who lack the required role.
	FallbackRoute = "/"
)

// Outcome is one of the guard's terminal (or pending) results.
type Outcome int

const (
	// Render means the destination may be shown.
	Render Outcome = iota
	// Pending means identity resolution is still in flight; show a neutral
	// state and never redirect yet.
	Pending
	// RedirectToLogin means the visitor is anonymous.
	RedirectToLogin
	// RedirectToFallback means the visitor is authenticated but lacks the
	// required role.
	RedirectToFallback
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Pending:
		return "pending"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToFallback:
		return "redirect-to-fallback"
	default:
		return "unknown"
	}
}

// Route describes a protected destination.
type Route struct {
	// Path is the destination being navigated to.
	Path string

	// RequiredRoles, when non-empty, restricts the destination to sessions
	// whose role is a member of the set. An empty set means any
	// authenticated session may enter.
	RequiredRoles []string
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Outcome Outcome

	// RedirectTo is set for the two redirect outcomes.
	RedirectTo string

	// From carries the original destination on a login redirect so the
	// caller can return there after authenticating.
	From string
}

// Allowed reports whether the destination may be rendered.
func (d Decision) Allowed() bool {
	return d.Outcome == Render
}

// Decide evaluates one navigation against the current session state.
//
// While the session is still resolving the decision is Pending: redirecting
// during resolution would bounce a valid, still-resolving session to the
// login page. Once settled, anonymous sessions go to login (carrying the
// origin), and authenticated sessions missing a required role go to the
// fallback destination, not login, since the user is authenticated but
// unauthorized for this destination.
func Decide(snap session.Snapshot, route Route) Decision {
	if snap.Status == session.StatusResolving || snap.Status == session.StatusUnresolved {
		return Decision{Outcome: Pending}
	}

	if snap.Status != session.StatusResolved || snap.User == nil {
		return Decision{
			Outcome:    RedirectToLogin,
			RedirectTo: LoginRoute,
			From:       route.Path,
		}
	}

	if len(route.RequiredRoles) > 0 && !contains(route.RequiredRoles, snap.User.Role) {
		return Decision{
			Outcome:    RedirectToFallback,
			RedirectTo: FallbackRoute,
		}
	}

	return Decision{Outcome: Render}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
