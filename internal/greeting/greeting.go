package greeting

import (
	"io"
	"net/http"
	"strings"
)

// Message is the body served on the root path.
const Message = "Hello, World!"

// Route binds an exact path to a handler for a set of methods.
type Route struct {
	Path    string
	Methods []string
	Handler http.HandlerFunc
}

// Routes returns the static route table of the service.
func Routes() []Route {
	return []Route{
		{
			Path:    "/",
			Methods: []string{http.MethodGet, http.MethodHead},
			Handler: Hello,
		},
	}
}

// Hello writes Message. It reads nothing from the request.
func Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, Message)
}

type entry struct {
	route Route
	allow string
}

// NewHandler dispatches requests by exact path match over routes.
// Unknown paths get the net/http default 404. Every known path answers
// OPTIONS with 200, and an unlisted method gets a 405; both carry an Allow
// header listing the route's methods plus OPTIONS.
func NewHandler(routes []Route) http.Handler {
	table := make(map[string]entry, len(routes))
	for _, rt := range routes {
		table[rt.Path] = entry{route: rt, allow: allowHeader(rt.Methods)}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e, ok := table[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		switch {
		case allows(e.route.Methods, r.Method):
			e.route.Handler(w, r)
		case r.Method == http.MethodOptions:
			w.Header().Set("Allow", e.allow)
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Allow", e.allow)
			http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func allowHeader(methods []string) string {
	allow := make([]string, 0, len(methods)+1)
	allow = append(allow, methods...)
	if !allows(methods, http.MethodOptions) {
		allow = append(allow, http.MethodOptions)
	}
	return strings.Join(allow, ", ")
}

func allows(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
