package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

type (
	Registrar func(r chi.Router, d deps.Deps)

	// Guard builds a middleware once the dependencies are known.
	Guard func(d deps.Deps) func(http.Handler) http.Handler
)

type group struct {
	reg    Registrar
	guards []Guard
}

var registry []group

// Register adds a route group, wrapped in guards when given.
func Register(reg Registrar, guards ...Guard) {
	registry = append(registry, group{reg: reg, guards: guards})
}

// RegisterAll mounts every registered group on r. Called once from
// httpserver.NewRouter().
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range registry {
		if len(g.guards) == 0 {
			g.reg(r, d)
			continue
		}
		mws := make([]func(http.Handler) http.Handler, 0, len(g.guards))
		for _, guard := range g.guards {
			mws = append(mws, guard(d))
		}
		g.reg(r.With(mws...), d)
	}
}

// adminOnly restricts a group to the admin network and hosts.
func adminOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AdminCIDRs, d.TrustProxy, d.Logger)
}

func adminHostOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}
