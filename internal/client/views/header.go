package views

// NavItem is one entry of the navigation bar. Logout has no path.
type NavItem struct {
	Label string
	Path  string
}

// Header builds the navigation for the current session.
type Header struct {
	session Session
}

func NewHeader(session Session) *Header {
	return &Header{session: session}
}

func (h *Header) Items() []NavItem {
	items := []NavItem{{Label: "Events", Path: "/events"}}
	if h.session.Snapshot().IsAuthenticated {
		return append(items, NavItem{Label: "Dashboard", Path: "/dashboard"}, NavItem{Label: "Logout"})
	}
	return append(items, NavItem{Label: "Login", Path: "/login"}, NavItem{Label: "Register", Path: "/register"})
}

// Logout ends the session and returns the path to go to.
func (h *Header) Logout() string {
	h.session.Logout()
	return "/"
}
