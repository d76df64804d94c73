package adaptor

import (
	"net/http"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"go.uber.org/zap"
)

type AccountHandler struct {
	service usecase.AccountService
	log     *zap.Logger
}

func NewAccountHandler(service usecase.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     log.With(zap.String("handler", "account")),
	}
}

// GetProfile handles GET /api/profile
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), actor)
	if err != nil {
		respondError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", profile)
}

// UpdateProfile handles PUT /api/profile
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated", profile)
}

// ChangePassword handles PUT /api/profile/password. All sessions end,
// including the current one.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	if err := h.service.ChangePassword(r.Context(), actor, &req); err != nil {
		respondError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password changed. Please log in again.", nil)
}

// ==================== ADMIN METHODS ====================

// ListAccounts handles GET /api/admin/users
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), actor, pageFromQuery(r, 20))
	if err != nil {
		respondError(w, h.log, err, "list accounts")
		return
	}

	utils.ResponseSuccess(w, "success", accounts)
}

// CreateAccount handles POST /api/admin/users
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req request.AccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), actor, &req)
	if err != nil {
		respondError(w, h.log, err, "create account")
		return
	}

	utils.ResponseCreated(w, "User created", account)
}

// UpdateAccount handles PUT /api/admin/users/{id}
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.AccountUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), actor, id, &req)
	if err != nil {
		respondError(w, h.log, err, "update account")
		return
	}

	utils.ResponseSuccess(w, "User updated", account)
}

// DeleteAccount handles DELETE /api/admin/users/{id}
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), actor, id); err != nil {
		respondError(w, h.log, err, "delete account")
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}
