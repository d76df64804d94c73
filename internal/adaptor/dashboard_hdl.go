package adaptor

import (
	"net/http"
	"time"

	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	service usecase.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service usecase.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		log:     log.With(zap.String("handler", "dashboard")),
	}
}

// Dashboard handles GET /api/admin/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), actor, time.Now())
	if err != nil {
		respondError(w, h.log, err, "dashboard")
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}
