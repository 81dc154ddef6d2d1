package home

import (
	"net/http"

	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	Render func(w http.ResponseWriter, r *http.Request, name string, data any)
	Log    *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
		Log: logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	CTAHref  string
	CTALabel string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome"),
		CTAHref:  "/signup",
		CTALabel: "Start tracking",
	}
	if data.IsLoggedIn {
		data.CTAHref = "/dashboard"
		data.CTALabel = "Open dashboard"
	}

	h.Render(w, r, "home", data)
}
