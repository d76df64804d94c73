package adaptor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type stubBookingService struct {
	usecase.BookingService
	gotActor usecase.Actor
	gotMovie uuid.UUID
	gotReq   *request.CreateBookingRequest
	err      error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, actor usecase.Actor, movieID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	s.gotActor, s.gotMovie, s.gotReq = actor, movieID, req
	if s.err != nil {
		return nil, s.err
	}
	return &response.BookingResponse{
		ID:         uuid.NewString(),
		MovieID:    movieID.String(),
		Seats:      req.Seats,
		TotalPrice: 25,
		Status:     entity.BookingStatusConfirmed,
	}, nil
}

type stubReviewService struct {
	usecase.ReviewService
	gotSettings entity.SiteSetting
	gotApproved *bool
}

func (s *stubReviewService) UpsertReview(ctx context.Context, actor usecase.Actor, movieID uuid.UUID, req *request.ReviewRequest, settings entity.SiteSetting) (*response.ReviewResponse, error) {
	s.gotSettings = settings
	return &response.ReviewResponse{ID: uuid.NewString(), Rating: req.Rating, IsApproved: !settings.RequireReviewApproval}, nil
}

func (s *stubReviewService) ListReviews(ctx context.Context, actor usecase.Actor, approved *bool, page request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	s.gotApproved = approved
	return response.NewPaginatedResponse([]response.ReviewResponse{}, page.Page, page.PerPage, 0), nil
}

type stubMovieService struct {
	usecase.MovieService
	gotList   *request.MovieListRequest
	gotViewer *usecase.Actor
}

func (s *stubMovieService) ListMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	s.gotList = req
	return response.NewPaginatedResponse([]response.MovieResponse{}, req.Page, req.PerPage, 0), nil
}

func (s *stubMovieService) GetMovie(ctx context.Context, viewer *usecase.Actor, id uuid.UUID) (*response.MovieDetailResponse, error) {
	s.gotViewer = viewer
	return nil, fmt.Errorf("%w: movie %s", usecase.ErrNotFound, id)
}

func asUser(r *http.Request, id uuid.UUID, role entity.Role) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), id, string(role)))
}

func withSettings(r *http.Request, s entity.SiteSetting) *http.Request {
	return r.WithContext(utils.SetSettingsContext(r.Context(), s))
}

func serve(t *testing.T, pattern, method string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: seats", usecase.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: movie", usecase.ErrNotFound), http.StatusNotFound},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecase.ErrUnauthorized, http.StatusForbidden},
		{usecase.ErrSelfDeletion, http.StatusForbidden},
		{usecase.ErrReviewsDisabled, http.StatusForbidden},
		{usecase.ErrAccountInactive, http.StatusForbidden},
		{usecase.ErrInsufficientInventory, http.StatusConflict},
		{usecase.ErrConflict, http.StatusConflict},
		{usecase.ErrInvalidTransition, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.code, rec.Code)
			body := rec.Body.String()
			assert.False(t, gjson.Get(body, "status").Bool())
			if tt.code == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", gjson.Get(body, "message").String())
			} else {
				assert.Equal(t, tt.err.Error(), gjson.Get(body, "message").String())
			}
		})
	}
}

func TestCreateBooking(t *testing.T) {
	movieID := uuid.New()
	userID := uuid.New()
	body := `{"show_date":"2026-11-01","show_time":"19:30","seats":2,"payment_method":"card"}`

	t.Run("requires a session", func(t *testing.T) {
		h := NewBookingHandler(&stubBookingService{}, zap.NewNop())
		req := httptest.NewRequest(http.MethodPost, "/movies/"+movieID.String()+"/bookings", strings.NewReader(body))

		rec := serve(t, "/movies/{id}/bookings", http.MethodPost, h.CreateBooking, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad movie id", func(t *testing.T) {
		h := NewBookingHandler(&stubBookingService{}, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodPost, "/movies/nope/bookings", strings.NewReader(body)), userID, entity.RoleUser)

		rec := serve(t, "/movies/{id}/bookings", http.MethodPost, h.CreateBooking, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewBookingHandler(&stubBookingService{}, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodPost, "/movies/"+movieID.String()+"/bookings", strings.NewReader("{")), userID, entity.RoleUser)

		rec := serve(t, "/movies/{id}/bookings", http.MethodPost, h.CreateBooking, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero seats reaches the service", func(t *testing.T) {
		stub := &stubBookingService{err: usecase.ErrInsufficientInventory}
		h := NewBookingHandler(stub, zap.NewNop())
		zero := `{"show_date":"2026-11-01","show_time":"19:30","seats":0,"payment_method":"card"}`
		req := asUser(httptest.NewRequest(http.MethodPost, "/movies/"+movieID.String()+"/bookings", strings.NewReader(zero)), userID, entity.RoleUser)

		rec := serve(t, "/movies/{id}/bookings", http.MethodPost, h.CreateBooking, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, stub.gotReq)
		assert.Equal(t, 0, stub.gotReq.Seats)
	})

	t.Run("created", func(t *testing.T) {
		stub := &stubBookingService{}
		h := NewBookingHandler(stub, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodPost, "/movies/"+movieID.String()+"/bookings", strings.NewReader(body)), userID, entity.RoleUser)

		rec := serve(t, "/movies/{id}/bookings", http.MethodPost, h.CreateBooking, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		assert.Equal(t, userID, stub.gotActor.ID)
		assert.Equal(t, entity.RoleUser, stub.gotActor.Role)
		assert.Equal(t, movieID, stub.gotMovie)
		assert.Equal(t, "confirmed", gjson.Get(rec.Body.String(), "data.status").String())
		assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "data.seats").Int())
	})
}

func TestUpsertReview_UsesRequestSettings(t *testing.T) {
	stub := &stubReviewService{}
	h := NewReviewHandler(stub, zap.NewNop())
	movieID := uuid.New()

	settings := entity.DefaultSiteSetting()
	settings.RequireReviewApproval = true

	req := httptest.NewRequest(http.MethodPost, "/movies/"+movieID.String()+"/reviews", strings.NewReader(`{"rating":4}`))
	req = withSettings(asUser(req, uuid.New(), entity.RoleUser), settings)

	rec := serve(t, "/movies/{id}/reviews", http.MethodPost, h.UpsertReview, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.gotSettings.RequireReviewApproval)
	assert.Equal(t, "Review submitted and awaiting approval", gjson.Get(rec.Body.String(), "message").String())
}

func TestListReviews_ApprovedQuery(t *testing.T) {
	admin := uuid.New()

	t.Run("filter passed through", func(t *testing.T) {
		stub := &stubReviewService{}
		h := NewReviewHandler(stub, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/reviews?approved=false", nil), admin, entity.RoleAdmin)

		rec := serve(t, "/admin/reviews", http.MethodGet, h.ListReviews, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.gotApproved)
		assert.False(t, *stub.gotApproved)
	})

	t.Run("absent means all", func(t *testing.T) {
		stub := &stubReviewService{}
		h := NewReviewHandler(stub, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/reviews", nil), admin, entity.RoleAdmin)

		rec := serve(t, "/admin/reviews", http.MethodGet, h.ListReviews, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, stub.gotApproved)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		h := NewReviewHandler(&stubReviewService{}, zap.NewNop())
		req := asUser(httptest.NewRequest(http.MethodGet, "/admin/reviews?approved=maybe", nil), admin, entity.RoleAdmin)

		rec := serve(t, "/admin/reviews", http.MethodGet, h.ListReviews, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListMovies_PageSizeFromSettings(t *testing.T) {
	stub := &stubMovieService{}
	h := NewMovieHandler(stub, zap.NewNop())

	settings := entity.DefaultSiteSetting()
	settings.MoviesPerPage = 7
	req := withSettings(httptest.NewRequest(http.MethodGet, "/movies?search=+dune+&status=all&page=2", nil), settings)

	rec := serve(t, "/movies", http.MethodGet, h.ListMovies, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.gotList)
	assert.Equal(t, 7, stub.gotList.PerPage)
	assert.Equal(t, 2, stub.gotList.Page)
	assert.Equal(t, "dune", stub.gotList.Search)
	assert.Equal(t, "all", stub.gotList.Status)
}

func TestGetMovie_OptionalViewer(t *testing.T) {
	stub := &stubMovieService{}
	h := NewMovieHandler(stub, zap.NewNop())
	id := uuid.New()

	rec := serve(t, "/movies/{id}", http.MethodGet, h.GetMovie, httptest.NewRequest(http.MethodGet, "/movies/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, stub.gotViewer)

	viewer := uuid.New()
	req := asUser(httptest.NewRequest(http.MethodGet, "/movies/"+id.String(), nil), viewer, entity.RoleUser)
	serve(t, "/movies/{id}", http.MethodGet, h.GetMovie, req)
	require.NotNil(t, stub.gotViewer)
	assert.Equal(t, viewer, stub.gotViewer.ID)
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		query   string
		page    int
		perPage int
	}{
		{"", 1, 12},
		{"page=3&per_page=5", 3, 5},
		{"page=0", 1, 12},
		{"page=-4&per_page=0", 1, 12},
		{"per_page=500", 1, 12},
		{"page=abc", 1, 12},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got := pageFromQuery(r, 12)
		assert.Equal(t, tt.page, got.Page, tt.query)
		assert.Equal(t, tt.perPage, got.PerPage, tt.query)
	}
}

func TestBoolQuery(t *testing.T) {
	for query, want := range map[string]bool{"true": true, "1": true, "FALSE": false, "no": false} {
		r := httptest.NewRequest(http.MethodGet, "/?approved="+query, nil)
		got, ok := boolQuery(r, "approved")
		require.True(t, ok, query)
		require.NotNil(t, got, query)
		assert.Equal(t, want, *got, query)
	}

	_, ok := boolQuery(httptest.NewRequest(http.MethodGet, "/?approved=2", nil), "approved")
	assert.False(t, ok)
}

func TestClientInfo(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:51234"
	r.Header.Set("User-Agent", strings.Repeat("x", 300))

	info := clientInfo(r)
	assert.Equal(t, "203.0.113.9", info.IPAddress)
	assert.Len(t, info.UserAgent, 255)
}
