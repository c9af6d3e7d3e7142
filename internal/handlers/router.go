package handlers

import "net/http"

// Router holds every handler the API serves
type Router struct {
	Middleware     *Middleware
	Auth           *AuthHandler
	Children       *ChildHandler
	Logs           *LogHandler
	Nutrition      *NutritionHandler
	MCP            *MCPHandler
	AllowedOrigins []string
}

// Handler registers the routes and wraps them with CORS and request logging
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	m := rt.Middleware

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	mux.HandleFunc("POST /api/auth/register", m.RateLimit(rt.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", m.RateLimit(rt.Auth.Login))
	mux.HandleFunc("GET /api/auth/providers", rt.Auth.ListOAuthProviders)
	mux.HandleFunc("GET /auth/{provider}/start", rt.Auth.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", m.RateLimit(rt.Auth.OAuthCallback))

	// Protected routes
	mux.HandleFunc("GET /api/auth/me", m.RequireAuth(rt.Auth.Me))

	mux.HandleFunc("GET /api/children", m.RequireAuth(rt.Children.ListChildren))
	mux.HandleFunc("POST /api/children", m.RequireAuth(rt.Children.CreateChild))
	mux.HandleFunc("GET /api/children/{id}", m.RequireAuth(rt.Children.GetChild))
	mux.HandleFunc("PUT /api/children/{id}", m.RequireAuth(rt.Children.UpdateChild))
	mux.HandleFunc("DELETE /api/children/{id}", m.RequireAuth(rt.Children.DeleteChild))
	mux.HandleFunc("GET /api/children/{id}/logs", m.RequireAuth(rt.Children.ListLogs))
	mux.HandleFunc("GET /api/children/{id}/summary", m.RequireAuth(rt.Children.Summary))
	mux.HandleFunc("GET /api/children/{id}/daily-insight", m.RequireAuth(rt.Children.DailyInsight))
	mux.HandleFunc("GET /api/children/{id}/recommendations", m.RequireAuth(rt.Children.Recommendations))

	mux.HandleFunc("POST /api/logs", m.RequireAuth(rt.Logs.CreateLog))

	mux.HandleFunc("GET /api/nutrition/search", m.RequireAuth(rt.Nutrition.Search))
	mux.HandleFunc("GET /api/foods/top-fiber", m.RequireAuth(rt.Nutrition.TopFiber))

	mux.HandleFunc("POST /mcp", m.RequireAuth(rt.MCP.CallTool))

	return Logging(CORS(rt.AllowedOrigins)(mux))
}
