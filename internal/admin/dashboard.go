// AngelaMos | 2026
// dashboard.go

package admin

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/templates/sessiongate/internal/middleware"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Admin</title>
</head>
<body>
<h1>Admin</h1>
<p>Signed in as {{.Name}} ({{.Email}})</p>
<table>
<tr><th>Database</th><td>{{if .Stats.Database.Healthy}}healthy{{else}}down{{end}}</td></tr>
<tr><th>Redis</th><td>{{if .Stats.Redis.Healthy}}healthy{{else}}down{{end}}</td></tr>
{{with .Stats.Sessions}}<tr><th>Active sessions</th><td>{{.Active}}</td></tr>{{end}}
<tr><th>Goroutines</th><td>{{.Stats.Runtime.NumGoroutine}}</td></tr>
<tr><th>Go</th><td>{{.Stats.Runtime.GoVersion}}</td></tr>
</table>
<form method="post" action="/auth/logout"><button type="submit">Sign out</button></form>
</body>
</html>
`))

type dashboardData struct {
	Name  string
	Email string
	Stats SystemStatsResponse
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	if p == nil {
		middleware.RedirectToLogin(w, r, h.loginPath)
		return
	}

	data := dashboardData{
		Name:  p.Name,
		Email: p.Email,
		Stats: h.collect(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.page.Execute(w, data); err != nil {
		slog.Error("render admin dashboard",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
	}
}
