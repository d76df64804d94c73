package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPerPage = 10

// respondError maps service error kinds to HTTP status codes
func respondError(w http.ResponseWriter, log *zap.Logger, err error, action string) {
	msg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrValidation):
		utils.ResponseBadRequest(w, msg, nil)
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, msg)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseUnauthorized(w, msg)
	case errors.Is(err, usecase.ErrUnauthorized),
		errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrReviewsDisabled),
		errors.Is(err, usecase.ErrAccountInactive):
		utils.ResponseForbidden(w, msg)
	case errors.Is(err, usecase.ErrInsufficientInventory),
		errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrInvalidTransition):
		utils.ResponseConflict(w, msg)
	default:
		log.Error("Request failed", zap.String("action", action), zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn("Request rejected", zap.String("action", action), zap.String("reason", msg))
}

// actorFrom builds the caller identity set by AuthSession
func actorFrom(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{ID: userID, Role: entity.Role(role)}, true
}

// requireActor writes 401 and returns false when the request is anonymous
func requireActor(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

// idParam parses the {name} URL parameter as a UUID
func idParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := utils.ParseUUID(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func pageFromQuery(r *http.Request, perPage int) request.PaginatedRequest {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), perPage),
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 || page.PerPage > 100 {
		page.PerPage = perPage
	}
	return page
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ua := r.UserAgent()
	if len(ua) > 255 {
		ua = ua[:255]
	}
	return usecase.ClientInfo{UserAgent: ua, IPAddress: ip}
}

// boolQuery reads an optional true/false query parameter
func boolQuery(r *http.Request, name string) (*bool, bool) {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "":
		return nil, true
	case "true", "1", "yes":
		v := true
		return &v, true
	case "false", "0", "no":
		v := false
		return &v, true
	}
	return nil, false
}
