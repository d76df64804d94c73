package usecase

import (
	"context"
	"testing"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func movieReq(title string) *request.MovieRequest {
	return &request.MovieRequest{
		Title:          title,
		Duration:       120,
		ReleaseDate:    "2026-05-01",
		Director:       "Someone",
		Status:         "now_showing",
		TicketPrice:    12.499,
		AvailableSeats: 80,
	}
}

func TestMovieCRUD_AdminOnly(t *testing.T) {
	repo, st := newFakeRepository()
	srv := NewMovieService(repo, zap.NewNop())
	ctx := context.Background()
	admin := st.addAccount("root", entity.RoleAdmin)
	user := st.addAccount("max", entity.RoleUser)

	_, err := srv.CreateMovie(ctx, actorOf(user), movieReq("Nope"))
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, st.count("movies"))

	created, err := srv.CreateMovie(ctx, actorOf(admin), movieReq("Solaris"))
	require.NoError(t, err)
	assert.Equal(t, 12.5, created.TicketPrice)
	id := uuid.MustParse(created.ID)

	// rating is derived and survives edits
	st.mu.Lock()
	m := st.movies[id]
	m.Rating = 4.2
	st.movies[id] = m
	st.mu.Unlock()

	req := movieReq("Solaris (1972)")
	req.AvailableSeats = 10
	updated, err := srv.UpdateMovie(ctx, actorOf(admin), id, req)
	require.NoError(t, err)
	assert.Equal(t, "Solaris (1972)", updated.Title)
	assert.Equal(t, 4.2, st.movie(id).Rating)
	assert.Equal(t, 10, st.movie(id).AvailableSeats)

	err = srv.DeleteMovie(ctx, actorOf(user), id)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.NoError(t, srv.DeleteMovie(ctx, actorOf(admin), id))
	assert.Equal(t, 0, st.count("movies"))
}

func TestCreateMovie_Validation(t *testing.T) {
	repo, st := newFakeRepository()
	srv := NewMovieService(repo, zap.NewNop())
	admin := st.addAccount("root", entity.RoleAdmin)

	tests := map[string]func(*request.MovieRequest){
		"missing title":   func(r *request.MovieRequest) { r.Title = "" },
		"bad status":      func(r *request.MovieRequest) { r.Status = "premiere" },
		"negative seats":  func(r *request.MovieRequest) { r.AvailableSeats = -1 },
		"negative price":  func(r *request.MovieRequest) { r.TicketPrice = -3 },
		"bad date":        func(r *request.MovieRequest) { r.ReleaseDate = "01/05/2026" },
		"bad poster url":  func(r *request.MovieRequest) { r.PosterURL = "not a url" },
		"malformed genre": func(r *request.MovieRequest) { r.GenreID = ptr("abc") },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := movieReq("Valid")
			mutate(req)
			_, err := srv.CreateMovie(context.Background(), actorOf(admin), req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	req := movieReq("Orphan")
	req.GenreID = ptr(uuid.NewString())
	_, err := srv.CreateMovie(context.Background(), actorOf(admin), req)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListMovies_PublicDefaultsToNowShowing(t *testing.T) {
	repo, st := newFakeRepository()
	srv := NewMovieService(repo, zap.NewNop())
	ctx := context.Background()
	st.addMovie("Playing", entity.MovieStatusNowShowing, 10, 10)
	st.addMovie("Later", entity.MovieStatusComingSoon, 10, 10)
	st.addMovie("Gone", entity.MovieStatusArchived, 10, 10)

	page := request.PaginatedRequest{Page: 1, PerPage: 12}

	resp, err := srv.ListMovies(ctx, &request.MovieListRequest{PaginatedRequest: page})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Playing", resp.Data[0].Title)
	assert.True(t, resp.Data[0].IsBookable)

	resp, err = srv.ListMovies(ctx, &request.MovieListRequest{PaginatedRequest: page, Status: "all"})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 3)

	resp, err = srv.ListMovies(ctx, &request.MovieListRequest{PaginatedRequest: page, Status: "coming_soon"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.False(t, resp.Data[0].IsBookable)

	_, err = srv.ListMovies(ctx, &request.MovieListRequest{PaginatedRequest: page, Status: "bogus"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestHome_Sections(t *testing.T) {
	repo, st := newFakeRepository()
	srv := NewMovieService(repo, zap.NewNop())

	for i := 0; i < 8; i++ {
		st.addMovie("now", entity.MovieStatusNowShowing, 10, 10)
	}
	base := time.Now()
	for i := 0; i < 4; i++ {
		m := st.addMovie("soon", entity.MovieStatusComingSoon, 10, 10)
		m.ReleaseDate = base.AddDate(0, 0, 10-i)
		st.movies[m.ID] = m
	}

	home, err := srv.Home(context.Background())
	require.NoError(t, err)
	assert.Len(t, home.NowShowing, 6)
	require.Len(t, home.ComingSoon, 3)
	assert.LessOrEqual(t, home.ComingSoon[0].ReleaseDate, home.ComingSoon[1].ReleaseDate)
}

func TestGetMovie_ReviewVisibility(t *testing.T) {
	repo, st := newFakeRepository()
	movies := NewMovieService(repo, zap.NewNop())
	reviews := NewReviewService(repo, nil, zap.NewNop())
	ctx := context.Background()

	admin := st.addAccount("root", entity.RoleAdmin)
	u1 := st.addAccount("ned", entity.RoleUser)
	u2 := st.addAccount("ora", entity.RoleUser)
	movie := st.addMovie("Stalker", entity.MovieStatusNowShowing, 10, 10)

	_, err := reviews.UpsertReview(ctx, actorOf(u1), movie.ID, &request.ReviewRequest{Rating: 5}, openSettings())
	require.NoError(t, err)
	_, err = reviews.UpsertReview(ctx, actorOf(u2), movie.ID, &request.ReviewRequest{Rating: 1}, moderatedSettings())
	require.NoError(t, err)

	anon, err := movies.GetMovie(ctx, nil, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), anon.ReviewCount)
	assert.Nil(t, anon.UserReview)
	assert.Equal(t, 5.0, anon.Rating)

	own := actorOf(u2)
	mine, err := movies.GetMovie(ctx, &own, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, mine.UserReview)
	assert.False(t, mine.UserReview.IsApproved)

	adm := actorOf(admin)
	full, err := movies.GetMovie(ctx, &adm, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), full.ReviewCount)

	_, err = movies.GetMovie(ctx, nil, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGenres(t *testing.T) {
	repo, st := newFakeRepository()
	srv := NewGenreService(repo, zap.NewNop())
	movies := NewMovieService(repo, zap.NewNop())
	ctx := context.Background()
	admin := st.addAccount("root", entity.RoleAdmin)
	user := st.addAccount("pia", entity.RoleUser)

	_, err := srv.CreateGenre(ctx, actorOf(user), &request.GenreRequest{Name: "Drama"})
	require.ErrorIs(t, err, ErrUnauthorized)

	drama, err := srv.CreateGenre(ctx, actorOf(admin), &request.GenreRequest{Name: "Drama"})
	require.NoError(t, err)
	_, err = srv.CreateGenre(ctx, actorOf(admin), &request.GenreRequest{Name: "drama"})
	require.ErrorIs(t, err, ErrConflict)

	req := movieReq("Ikiru")
	req.GenreID = ptr(drama.ID)
	movie, err := movies.CreateMovie(ctx, actorOf(admin), req)
	require.NoError(t, err)
	require.NotNil(t, movie.Genre)
	assert.Equal(t, "Drama", *movie.Genre)

	list, err := srv.ListGenres(ctx, "dra")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, srv.DeleteGenre(ctx, actorOf(admin), uuid.MustParse(drama.ID)))
	assert.Nil(t, st.movie(uuid.MustParse(movie.ID)).GenreID)
	assert.Equal(t, 1, st.count("movies"))
}
