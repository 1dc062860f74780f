package session

// Redirector is the navigation side effect taken when the guard finds
// no credential. The CLI points the user at the login command; a test
// records the call.
type Redirector interface {
	RedirectToLogin()
}

// Guard gates protected views. It re-runs the presence check on every
// Check call and redirects when unauthenticated; it never validates
// token expiry.
type Guard struct {
	session    *Session
	redirector Redirector
}

func NewGuard(session *Session, redirector Redirector) *Guard {
	return &Guard{
		session:    session,
		redirector: redirector,
	}
}

// Check resolves the session and reports whether the protected content
// may proceed. On an unauthenticated session it fires the redirect and
// returns false: nothing behind the guard should run.
func (g *Guard) Check() bool {
	if g.session.State() == Checking {
		// Resolve before rendering anything. A storage error degrades
		// to unauthenticated rather than blocking.
		g.session.Init()
	}

	if g.session.State() != Authenticated {
		g.redirector.RedirectToLogin()
		return false
	}

	return true
}
