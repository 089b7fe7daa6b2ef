package logging

import "strings"

// Exemptions lists the routes that never produce a request summary.
type Exemptions struct {
	paths    map[string]struct{}
	suffixes []string
}

func NewExemptions(paths []string, suffixes []string) *Exemptions {
	e := &Exemptions{
		paths:    make(map[string]struct{}, len(paths)),
		suffixes: suffixes,
	}
	for _, p := range paths {
		e.paths[p] = struct{}{}
	}
	return e
}

// DefaultExemptions covers the root, metrics, API docs and health routes
// plus worker source maps.
func DefaultExemptions(apiVersion string) *Exemptions {
	api := "/api/" + apiVersion
	return NewExemptions(
		[]string{
			"/",
			"/metrics",
			api + "/openapi.json",
			api + "/docs",
			api + "/redoc",
			api + "/healthcheck",
		},
		[]string{".worker.js.map"},
	)
}

func (e *Exemptions) Match(path string) bool {
	if _, ok := e.paths[path]; ok {
		return true
	}
	for _, suffix := range e.suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
