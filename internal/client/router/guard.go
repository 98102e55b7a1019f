package router

// Predicates are the session facts the guard needs.
type Predicates interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Decision is the guard outcome: either allow, or go to Redirect instead.
type Decision struct {
	Allow    bool
	Redirect Name
}

func allow() Decision { return Decision{Allow: true} }

func redirect(to Name) Decision { return Decision{Redirect: to} }

// Guard decides whether the route to may be entered. Rules are checked in
// order: missing auth goes to login before missing admin goes to the board.
func Guard(to Route, p Predicates) Decision {
	authed := p.IsAuthenticated()

	if to.RequiresAuth && !authed {
		return redirect(Login)
	}
	if to.RequiresAdmin && !p.IsAdmin() {
		return redirect(Board)
	}
	if to.Name == Login && authed {
		return redirect(Board)
	}
	return allow()
}
