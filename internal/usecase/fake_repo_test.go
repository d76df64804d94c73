package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore backs every fake repository. Transactions are serialized and
// roll back by restoring a snapshot, which is enough to observe the
// all-or-nothing behaviour of the services.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	accounts map[uuid.UUID]entity.Account
	sessions map[uuid.UUID]entity.Session // by token
	genres   map[uuid.UUID]entity.Genre
	movies   map[uuid.UUID]entity.Movie
	bookings map[uuid.UUID]entity.Booking
	reviews  map[uuid.UUID]entity.Review
	setting  *entity.SiteSetting

	// failBookingCreate makes the next Booking.Create fail
	failBookingCreate error
	// onMovieLock runs before every Movie.FindByIDForUpdate
	onMovieLock func(id uuid.UUID)
	settingReads      int
}

type memSnapshot struct {
	accounts map[uuid.UUID]entity.Account
	sessions map[uuid.UUID]entity.Session
	genres   map[uuid.UUID]entity.Genre
	movies   map[uuid.UUID]entity.Movie
	bookings map[uuid.UUID]entity.Booking
	reviews  map[uuid.UUID]entity.Review
	setting  *entity.SiteSetting
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[uuid.UUID]entity.Account{},
		sessions: map[uuid.UUID]entity.Session{},
		genres:   map[uuid.UUID]entity.Genre{},
		movies:   map[uuid.UUID]entity.Movie{},
		bookings: map[uuid.UUID]entity.Booking{},
		reviews:  map[uuid.UUID]entity.Review{},
	}
}

func newFakeRepository() (*repository.Repository, *memStore) {
	st := newMemStore()
	return &repository.Repository{
		Account: &fakeAccountRepo{st},
		Session: &fakeSessionRepo{st},
		Genre:   &fakeGenreRepo{st},
		Movie:   &fakeMovieRepo{st},
		Booking: &fakeBookingRepo{st},
		Review:  &fakeReviewRepo{st},
		Setting: &fakeSettingRepo{st},
		Stats:   &fakeStatsRepo{st},
		Tx:      &fakeTransactor{st},
	}, st
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		accounts: maps.Clone(s.accounts),
		sessions: maps.Clone(s.sessions),
		genres:   maps.Clone(s.genres),
		movies:   maps.Clone(s.movies),
		bookings: maps.Clone(s.bookings),
		reviews:  maps.Clone(s.reviews),
	}
	if s.setting != nil {
		cp := *s.setting
		snap.setting = &cp
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.sessions = snap.sessions
	s.genres = snap.genres
	s.movies = snap.movies
	s.bookings = snap.bookings
	s.reviews = snap.reviews
	s.setting = snap.setting
}

// ==================== SEED HELPERS ====================

func (s *memStore) addAccount(username string, role entity.Role) entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	a := entity.Account{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	s.accounts[a.ID] = a
	return a
}

func (s *memStore) addMovie(title string, status entity.MovieStatus, price float64, seats int) entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	m := entity.Movie{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Title:          title,
		Status:         status,
		TicketPrice:    price,
		AvailableSeats: seats,
		ReleaseDate:    now,
	}
	s.movies[m.ID] = m
	return m
}

func (s *memStore) movie(id uuid.UUID) entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movies[id]
}

func (s *memStore) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) count(what string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch what {
	case "bookings":
		return len(s.bookings)
	case "reviews":
		return len(s.reviews)
	case "accounts":
		return len(s.accounts)
	case "movies":
		return len(s.movies)
	case "genres":
		return len(s.genres)
	}
	panic("unknown table " + what)
}

// ==================== TRANSACTOR ====================

type fakeTxKey struct{}

type fakeTransactor struct{ st *memStore }

func (t *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	t.st.txMu.Lock()
	defer t.st.txMu.Unlock()

	snap := t.st.snapshot()
	defer func() {
		if p := recover(); p != nil {
			t.st.restore(snap)
			panic(p)
		}
		if err != nil {
			t.st.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== ACCOUNTS ====================

type fakeAccountRepo struct{ st *memStore }

func (r *fakeAccountRepo) duplicate(a *entity.Account) bool {
	for _, other := range r.st.accounts {
		if other.ID == a.ID {
			continue
		}
		if other.Username == a.Username || strings.EqualFold(other.Email, a.Email) {
			return true
		}
	}
	return false
}

func (r *fakeAccountRepo) Create(ctx context.Context, a *entity.Account) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.duplicate(a) {
		return fmt.Errorf("create account: %w", repository.ErrDuplicate)
	}
	r.st.accounts[a.ID] = *a
	return nil
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, a := range r.st.accounts {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, a := range r.st.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.st.accounts {
		out = append(out, &a)
	}
	slices.SortFunc(out, func(a, b *entity.Account) int { return strings.Compare(a.Username, b.Username) })
	return page(out, limit, offset), nil
}

func (r *fakeAccountRepo) CountAll(ctx context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.st.accounts)), nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a *entity.Account) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.accounts[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.duplicate(a) {
		return fmt.Errorf("update account: %w", repository.ErrDuplicate)
	}
	r.st.accounts[a.ID] = *a
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.accounts, id)
	for k, b := range r.st.bookings {
		if b.UserID == id {
			delete(r.st.bookings, k)
		}
	}
	for k, rv := range r.st.reviews {
		if rv.UserID == id {
			delete(r.st.reviews, k)
		}
	}
	for k, s := range r.st.sessions {
		if s.UserID == id {
			delete(r.st.sessions, k)
		}
	}
	return nil
}

// ==================== SESSIONS ====================

type fakeSessionRepo struct{ st *memStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.Session) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.sessions[s.Token] = *s
	return nil
}

func (r *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	s, ok := r.st.sessions[id]
	if !ok || !s.Valid(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if s, ok := r.st.sessions[id]; ok && s.RevokedAt == nil {
		now := time.Now()
		s.RevokedAt = &now
		r.st.sessions[id] = s
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	now := time.Now()
	for k, s := range r.st.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			r.st.sessions[k] = s
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	now := time.Now()
	for k, s := range r.st.sessions {
		if !s.Valid(now) {
			delete(r.st.sessions, k)
			n++
		}
	}
	return n, nil
}

// ==================== GENRES ====================

type fakeGenreRepo struct{ st *memStore }

func (r *fakeGenreRepo) Create(ctx context.Context, g *entity.Genre) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, other := range r.st.genres {
		if strings.EqualFold(other.Name, g.Name) {
			return fmt.Errorf("create genre: %w", repository.ErrDuplicate)
		}
	}
	r.st.genres[g.ID] = *g
	return nil
}

func (r *fakeGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *fakeGenreRepo) FindByName(ctx context.Context, name string) (*entity.Genre, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, g := range r.st.genres {
		if strings.EqualFold(g.Name, name) {
			return &g, nil
		}
	}
	return nil, nil
}

func (r *fakeGenreRepo) FindAll(ctx context.Context, search string) ([]*entity.Genre, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*entity.Genre
	for _, g := range r.st.genres {
		if search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			out = append(out, &g)
		}
	}
	slices.SortFunc(out, func(a, b *entity.Genre) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *fakeGenreRepo) Update(ctx context.Context, g *entity.Genre) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, other := range r.st.genres {
		if other.ID != g.ID && strings.EqualFold(other.Name, g.Name) {
			return fmt.Errorf("update genre: %w", repository.ErrDuplicate)
		}
	}
	r.st.genres[g.ID] = *g
	return nil
}

func (r *fakeGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.genres, id)
	for k, m := range r.st.movies {
		if m.GenreID != nil && *m.GenreID == id {
			m.GenreID = nil
			m.GenreName = nil
			r.st.movies[k] = m
		}
	}
	return nil
}

// ==================== MOVIES ====================

type fakeMovieRepo struct{ st *memStore }

func (r *fakeMovieRepo) Create(ctx context.Context, m *entity.Movie) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.movies[m.ID] = *m
	return nil
}

func (r *fakeMovieRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.movies[id]
	if !ok {
		return nil, nil
	}
	if m.GenreID != nil {
		if g, ok := r.st.genres[*m.GenreID]; ok {
			m.GenreName = &g.Name
		}
	}
	return &m, nil
}

func (r *fakeMovieRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	if r.st.onMovieLock != nil {
		r.st.onMovieLock(id)
	}
	return r.FindByID(ctx, id)
}

func (r *fakeMovieRepo) Update(ctx context.Context, m *entity.Movie) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	old, ok := r.st.movies[m.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := *m
	updated.Rating = old.Rating
	r.st.movies[m.ID] = updated
	return nil
}

func (r *fakeMovieRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.movies, id)
	for k, b := range r.st.bookings {
		if b.MovieID == id {
			delete(r.st.bookings, k)
		}
	}
	for k, rv := range r.st.reviews {
		if rv.MovieID == id {
			delete(r.st.reviews, k)
		}
	}
	return nil
}

func (r *fakeMovieRepo) matching(filter repository.MovieFilter) []*entity.Movie {
	var out []*entity.Movie
	search := strings.ToLower(filter.Search)
	for _, m := range r.st.movies {
		if filter.Status != nil && *filter.Status != "" && m.Status != *filter.Status {
			continue
		}
		if filter.GenreID != nil && (m.GenreID == nil || *m.GenreID != *filter.GenreID) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Title), search) &&
			!strings.Contains(strings.ToLower(m.Director), search) {
			continue
		}
		out = append(out, &m)
	}
	slices.SortFunc(out, func(a, b *entity.Movie) int {
		switch filter.OrderBy {
		case repository.OrderReleaseAsc:
			return a.ReleaseDate.Compare(b.ReleaseDate)
		case repository.OrderCreatedDesc:
			return b.CreatedAt.Compare(a.CreatedAt)
		default:
			return b.ReleaseDate.Compare(a.ReleaseDate)
		}
	})
	return out
}

func (r *fakeMovieRepo) FindAll(ctx context.Context, filter repository.MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *fakeMovieRepo) CountAll(ctx context.Context, filter repository.MovieFilter) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeMovieRepo) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return slices.Collect(maps.Keys(r.st.movies)), nil
}

func (r *fakeMovieRepo) ReserveSeats(ctx context.Context, id uuid.UUID, seats int) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.movies[id]
	if !ok || m.AvailableSeats < seats {
		return false, nil
	}
	m.AvailableSeats -= seats
	r.st.movies[id] = m
	return true, nil
}

func (r *fakeMovieRepo) ReleaseSeats(ctx context.Context, id uuid.UUID, seats int) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.movies[id]
	if !ok {
		return pgx.ErrNoRows
	}
	m.AvailableSeats += seats
	r.st.movies[id] = m
	return nil
}

func (r *fakeMovieRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	m, ok := r.st.movies[id]
	if !ok {
		return pgx.ErrNoRows
	}
	m.Rating = rating
	r.st.movies[id] = m
	return nil
}

// ==================== BOOKINGS ====================

type fakeBookingRepo struct{ st *memStore }

func (r *fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if err := r.st.failBookingCreate; err != nil {
		r.st.failBookingCreate = nil
		return err
	}
	r.st.bookings[b.ID] = *b
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBookingRepo) matching(filter repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.st.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *fakeBookingRepo) FindAll(ctx context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *fakeBookingRepo) CountAll(ctx context.Context, filter repository.BookingFilter) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	b.Status = status
	r.st.bookings[id] = b
	return nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok || b.Status == entity.BookingStatusCancelled {
		return false, nil
	}
	b.Status = entity.BookingStatusCancelled
	r.st.bookings[id] = b
	return true, nil
}

// ==================== REVIEWS ====================

type fakeReviewRepo struct{ st *memStore }

func (r *fakeReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, other := range r.st.reviews {
		if other.UserID == rv.UserID && other.MovieID == rv.MovieID {
			return fmt.Errorf("create review: %w", repository.ErrDuplicate)
		}
	}
	r.st.reviews[rv.ID] = *rv
	return nil
}

func (r *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	rv, ok := r.st.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (r *fakeReviewRepo) FindByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*entity.Review, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, rv := range r.st.reviews {
		if rv.UserID == userID && rv.MovieID == movieID {
			return &rv, nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) matching(filter repository.ReviewFilter) []*entity.Review {
	var out []*entity.Review
	for _, rv := range r.st.reviews {
		if filter.MovieID != nil && rv.MovieID != *filter.MovieID {
			continue
		}
		if filter.UserID != nil && rv.UserID != *filter.UserID {
			continue
		}
		if filter.Approved != nil && rv.IsApproved != *filter.Approved {
			continue
		}
		out = append(out, &rv)
	}
	slices.SortFunc(out, func(a, b *entity.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (r *fakeReviewRepo) FindAll(ctx context.Context, filter repository.ReviewFilter, limit, offset int) ([]*entity.Review, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return page(r.matching(filter), limit, offset), nil
}

func (r *fakeReviewRepo) CountAll(ctx context.Context, filter repository.ReviewFilter) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, rv *entity.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.reviews[rv.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.st.reviews[rv.ID] = *rv
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.reviews, id)
	return nil
}

func (r *fakeReviewRepo) GetApprovedStats(ctx context.Context, movieID uuid.UUID) (float64, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var sum, n int64
	for _, rv := range r.st.reviews {
		if rv.MovieID == movieID && rv.IsApproved {
			sum += int64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

func (r *fakeReviewRepo) FindMovieIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, rv := range r.st.reviews {
		if rv.UserID == userID && !seen[rv.MovieID] {
			seen[rv.MovieID] = true
			ids = append(ids, rv.MovieID)
		}
	}
	return ids, nil
}

// ==================== SETTINGS ====================

type fakeSettingRepo struct{ st *memStore }

func (r *fakeSettingRepo) Get(ctx context.Context) (*entity.SiteSetting, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.settingReads++
	if r.st.setting == nil {
		return nil, nil
	}
	cp := *r.st.setting
	return &cp, nil
}

func (r *fakeSettingRepo) CreateIfMissing(ctx context.Context, defaults entity.SiteSetting) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.setting == nil {
		defaults.UpdatedAt = time.Now()
		r.st.setting = &defaults
	}
	return nil
}

func (r *fakeSettingRepo) Update(ctx context.Context, s *entity.SiteSetting) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cp := *s
	r.st.setting = &cp
	return nil
}

// ==================== STATS ====================

type fakeStatsRepo struct{ st *memStore }

func (r *fakeStatsRepo) Totals(ctx context.Context) (*entity.Totals, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t := &entity.Totals{
		Movies:   int64(len(r.st.movies)),
		Genres:   int64(len(r.st.genres)),
		Bookings: int64(len(r.st.bookings)),
		Reviews:  int64(len(r.st.reviews)),
	}
	for _, a := range r.st.accounts {
		if a.Role == entity.RoleAdmin {
			t.Admins++
		} else {
			t.Users++
		}
	}
	for _, b := range r.st.bookings {
		if b.Status == entity.BookingStatusPending {
			t.PendingBookings++
		}
	}
	return t, nil
}

func (r *fakeStatsRepo) CountCreatedBetween(ctx context.Context, subject repository.StatSubject, from, to time.Time) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	in := func(t time.Time) bool { return !t.Before(from) && t.Before(to) }

	var n int64
	switch subject {
	case repository.StatMovies:
		for _, m := range r.st.movies {
			if in(m.CreatedAt) {
				n++
			}
		}
	case repository.StatUsers:
		for _, a := range r.st.accounts {
			if a.Role == entity.RoleUser && in(a.CreatedAt) {
				n++
			}
		}
	case repository.StatReviews:
		for _, rv := range r.st.reviews {
			if in(rv.CreatedAt) {
				n++
			}
		}
	case repository.StatBookings:
		for _, b := range r.st.bookings {
			if in(b.CreatedAt) {
				n++
			}
		}
	default:
		return 0, fmt.Errorf("unknown stat subject %q", subject)
	}
	return n, nil
}

func (r *fakeStatsRepo) MoviesPerGenre(ctx context.Context) ([]entity.GenreCount, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	counts := map[uuid.UUID]int64{}
	for _, m := range r.st.movies {
		if m.GenreID != nil {
			counts[*m.GenreID]++
		}
	}
	var out []entity.GenreCount
	for id, n := range counts {
		out = append(out, entity.GenreCount{GenreID: id, Name: r.st.genres[id].Name, Movies: n})
	}
	slices.SortFunc(out, func(a, b entity.GenreCount) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *fakeStatsRepo) RatingDistribution(ctx context.Context) (map[int]int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	dist := map[int]int64{}
	for _, rv := range r.st.reviews {
		dist[rv.Rating]++
	}
	return dist, nil
}
