// Package navigation decides which page a request ends up on.
package navigation

// Page paths.
const (
	Login       = "/login"
	Dashboard   = "/"
	Movements   = "/movements"
	Setup       = "/setup"
	Investments = "/investments"
)

var protected = map[string]bool{
	Dashboard:   true,
	Movements:   true,
	Setup:       true,
	Investments: true,
}

// Known reports whether path is one of the pages.
func Known(path string) bool {
	return path == Login || protected[path]
}

// Resolve returns the page to show for path. When redirect is true the
// client must be sent to target instead of path.
//
// Signed out users only ever see the login page. Signed in users never see
// it, and unknown paths lead them to the dashboard.
func Resolve(path string, authenticated bool) (target string, redirect bool) {
	if !authenticated {
		if path == Login {
			return Login, false
		}

		return Login, true
	}

	if !Known(path) || path == Login {
		return Dashboard, true
	}

	return path, false
}
