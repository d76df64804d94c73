package adaptor

import (
	"net/http"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type SettingHandler struct {
	service usecase.SettingService
	log     *zap.Logger
}

func NewSettingHandler(service usecase.SettingService, log *zap.Logger) *SettingHandler {
	return &SettingHandler{
		service: service,
		log:     log.With(zap.String("handler", "setting")),
	}
}

// Overview handles GET /api/admin/settings
func (h *SettingHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	overview, err := h.service.Overview(r.Context(), actor)
	if err != nil {
		respondError(w, h.log, err, "settings overview")
		return
	}

	utils.ResponseSuccess(w, "success", overview)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *SettingHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "update settings")
		return
	}

	utils.ResponseSuccess(w, "Settings updated", settings)
}
