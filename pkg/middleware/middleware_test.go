package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type stubSessions struct {
	repository.SessionRepository
	sessions map[string]*entity.Session
	err      error
}

func (s *stubSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

type stubAccounts struct {
	repository.AccountRepository
	accounts map[uuid.UUID]*entity.Account
}

func (s *stubAccounts) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return s.accounts[id], nil
}

type stubSettings struct {
	settings *entity.SiteSetting
	err      error
}

func (s *stubSettings) GetSettings(ctx context.Context) (*entity.SiteSetting, error) {
	return s.settings, s.err
}

type authFixture struct {
	sessions  *stubSessions
	accounts  *stubAccounts
	userToken string
	adminTok  string
	idleTok   string
	userID    uuid.UUID
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		sessions: &stubSessions{sessions: map[string]*entity.Session{}},
		accounts: &stubAccounts{accounts: map[uuid.UUID]*entity.Account{}},
	}
	add := func(role entity.Role, active bool) (string, uuid.UUID) {
		acc := &entity.Account{Base: entity.Base{ID: uuid.New()}, Role: role, IsActive: active}
		f.accounts.accounts[acc.ID] = acc
		token := uuid.NewString()
		f.sessions.sessions[token] = &entity.Session{UserID: acc.ID, ExpiresAt: time.Now().Add(time.Hour)}
		return token, acc.ID
	}
	f.userToken, f.userID = add(entity.RoleUser, true)
	f.adminTok, _ = add(entity.RoleAdmin, true)
	f.idleTok, _ = add(entity.RoleUser, false)
	return f
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := utils.GetUserIDFromContext(r.Context())
		role, _ := utils.GetRoleFromContext(r.Context())
		token, _ := utils.GetTokenFromContext(r.Context())
		utils.ResponseSuccess(w, "ok", map[string]string{"user_id": id.String(), "role": role, "token": token})
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestAuthSession(t *testing.T) {
	f := newAuthFixture()
	h := AuthSession(f.sessions, f.accounts, zap.NewNop())(echoIdentity())

	rec := serve(h, "Bearer "+f.userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, f.userID.String(), gjson.Get(body, "data.user_id").String())
	assert.Equal(t, "user", gjson.Get(body, "data.role").String())
	assert.Equal(t, f.userToken, gjson.Get(body, "data.token").String())

	rec = serve(h, "Bearer "+f.adminTok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", gjson.Get(rec.Body.String(), "data.role").String())

	rec = serve(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gjson.Get(rec.Body.String(), "status").Bool())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "Token "+f.userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer "+uuid.NewString()).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+f.idleTok).Code)

	f.sessions.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, serve(h, "Bearer "+f.userToken).Code)
}

func TestOptionalAuth(t *testing.T) {
	f := newAuthFixture()
	h := OptionalAuth(f.sessions, f.accounts, zap.NewNop())(echoIdentity())

	rec := serve(h, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uuid.Nil.String(), gjson.Get(rec.Body.String(), "data.user_id").String())

	rec = serve(h, "Bearer "+uuid.NewString())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gjson.Get(rec.Body.String(), "data.role").String())

	rec = serve(h, "Bearer "+f.userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.userID.String(), gjson.Get(rec.Body.String(), "data.user_id").String())
}

func TestAdmin(t *testing.T) {
	f := newAuthFixture()
	log := zap.NewNop()
	h := AuthSession(f.sessions, f.accounts, log)(Admin(log)(echoIdentity()))

	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+f.adminTok).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+f.userToken).Code)

	// without AuthSession in front there is no identity at all
	assert.Equal(t, http.StatusUnauthorized, serve(Admin(log)(echoIdentity()), "").Code)
}

func TestSiteSettingsAndMaintenance(t *testing.T) {
	f := newAuthFixture()
	log := zap.NewNop()
	settings := entity.DefaultSiteSetting()
	provider := &stubSettings{settings: &settings}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "ok", SettingsFromContext(r.Context()))
	})
	h := SiteSettings(provider, log)(OptionalAuth(f.sessions, f.accounts, log)(Maintenance(log)(inner)))

	rec := serve(h, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Movie Theater", gjson.Get(rec.Body.String(), "data.site_name").String())

	settings.MaintenanceMode = true
	rec = serve(h, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "Bearer "+f.userToken).Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+f.adminTok).Code)

	provider.err = errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, serve(h, "").Code)
}

func TestSettingsFromContext_DefaultsWhenMissing(t *testing.T) {
	s := SettingsFromContext(context.Background())
	assert.Equal(t, entity.DefaultSiteSetting(), s)
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", gjson.Get(rec.Body.String(), "message").String())
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "missing")
	}))

	rec := serve(h, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", gjson.Get(rec.Body.String(), "message").String())
}
