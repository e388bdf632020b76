package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelist/reelist-api/internal/application"
	"github.com/reelist/reelist-api/internal/domain/entity"
	repo "github.com/reelist/reelist-api/internal/domain/repository"
	"github.com/reelist/reelist-api/internal/interface/middleware"
)

// -------- test fakes --------

type memMovieRepo struct {
	byID   map[string]*entity.Movie
	order  []string
	nextID int
}

func newMemMovieRepo() *memMovieRepo {
	return &memMovieRepo{byID: map[string]*entity.Movie{}}
}

func (f *memMovieRepo) Create(ctx context.Context, m *entity.Movie) error {
	f.nextID++
	m.ID = fmt.Sprintf("movie-%d", f.nextID)
	cp := *m
	f.byID[m.ID] = &cp
	f.order = append(f.order, m.ID)
	return nil
}

func (f *memMovieRepo) GetByID(ctx context.Context, id string) (*entity.Movie, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *memMovieRepo) ListByOwner(ctx context.Context, ownerID string, filter repo.MovieFilter) ([]*entity.Movie, error) {
	var out []*entity.Movie
	for _, id := range f.order {
		m := f.byID[id]
		if m.UserID == ownerID && filter.Matches(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *memMovieRepo) UpdateOwned(ctx context.Context, m *entity.Movie) (bool, error) {
	existing, ok := f.byID[m.ID]
	if !ok || existing.UserID != m.UserID {
		return false, nil
	}
	cp := *m
	f.byID[m.ID] = &cp
	return true, nil
}

func (f *memMovieRepo) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	existing, ok := f.byID[id]
	if !ok || existing.UserID != ownerID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

type stubUploader struct {
	url string
	err error
}

func (s *stubUploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

// -------- helpers --------

// newMovieRouter stubs the auth middleware with a fixed caller identity;
// token validation itself is covered by the middleware tests.
func newMovieRouter(t *testing.T, callerEmail string, up *stubUploader) (*gin.Engine, *memMovieRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUserRepo()
	users.byEmail["a@x.com"] = &entity.User{ID: "user-a", Username: "alice", Email: "a@x.com"}
	users.byEmail["b@x.com"] = &entity.User{ID: "user-b", Username: "bob", Email: "b@x.com"}
	movies := newMemMovieRepo()
	if up == nil {
		up = &stubUploader{url: "https://i.ibb.co/test/p.png"}
	}
	svc := application.NewMovieService(movies, users, up, logrus.New(), nil, "")
	h := NewMovieHandler(svc, logrus.New())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserEmailKey, callerEmail) })
	r.POST("/api/movies", h.Add)
	r.GET("/api/movies", h.List)
	r.GET("/api/movies/:id", h.Get)
	r.PUT("/api/movies/:id", h.Update)
	r.DELETE("/api/movies/:id", h.Delete)
	return r, movies
}

func multipartBody(t *testing.T, fields map[string]string, poster []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if poster != nil {
		fw, err := mw.CreateFormFile("poster", "poster.png")
		require.NoError(t, err)
		_, err = fw.Write(poster)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func doMultipart(t *testing.T, r *gin.Engine, method, path string, fields map[string]string, poster []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, poster)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	return w
}

func movieData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var e struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.True(t, e.Success)
	return e.Data
}

// -------- tests --------

func TestMovieAdd_Multipart(t *testing.T) {
	r, movies := newMovieRouter(t, "a@x.com", nil)

	w := doMultipart(t, r, http.MethodPost, "/api/movies", map[string]string{
		"name":        "Dune",
		"description": "desc",
		"genre":       "scifi",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	data := movieData(t, w)
	assert.Equal(t, "Dune", data["name"])
	assert.Equal(t, "scifi", data["genre"])

	stored := movies.byID[data["id"].(string)]
	require.NotNil(t, stored)
	assert.Equal(t, "user-a", stored.UserID)
}

func TestMovieAdd_WithPoster(t *testing.T) {
	up := &stubUploader{url: "https://i.ibb.co/test/dune.png"}
	r, _ := newMovieRouter(t, "a@x.com", up)

	w := doMultipart(t, r, http.MethodPost, "/api/movies", map[string]string{
		"name":        "Dune",
		"description": "desc",
	}, []byte{0x89, 0x50, 0x4e, 0x47})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://i.ibb.co/test/dune.png", movieData(t, w)["poster_url"])
}

func TestMovieAdd_UploadFailure(t *testing.T) {
	up := &stubUploader{err: fmt.Errorf("host down")}
	r, movies := newMovieRouter(t, "a@x.com", up)

	w := doMultipart(t, r, http.MethodPost, "/api/movies", map[string]string{
		"name": "Dune",
	}, []byte{1, 2, 3})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, movies.byID)
}

func TestMovieGet_NotFoundVsForbidden(t *testing.T) {
	r, movies := newMovieRouter(t, "a@x.com", nil)
	movies.byID["movie-b"] = &entity.Movie{ID: "movie-b", Name: "Bob's", UserID: "user-b"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies/movie-b", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMovieUpdate_OverwritesOmittedFields(t *testing.T) {
	r, movies := newMovieRouter(t, "a@x.com", nil)
	movies.byID["movie-1"] = &entity.Movie{
		ID: "movie-1", Name: "Dune", Description: "desc",
		Link: "https://example.com", Genre: "scifi", UserID: "user-a",
	}

	w := doMultipart(t, r, http.MethodPut, "/api/movies/movie-1", map[string]string{
		"name":        "Dune: Part Two",
		"description": "sequel",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	stored := movies.byID["movie-1"]
	assert.Equal(t, "Dune: Part Two", stored.Name)
	assert.Empty(t, stored.Link)
	assert.Empty(t, stored.Genre)
}

func TestMovieList_Filters(t *testing.T) {
	r, movies := newMovieRouter(t, "a@x.com", nil)
	for i, m := range []entity.Movie{
		{Name: "Matrix", Genre: "scifi", UserID: "user-a"},
		{Name: "Matrix Reloaded", Genre: "scifi", UserID: "user-a"},
		{Name: "Up", Genre: "comedy", UserID: "user-a"},
		{Name: "Matrix", Genre: "scifi", UserID: "user-b"},
	} {
		m := m
		m.ID = fmt.Sprintf("m-%d", i)
		movies.byID[m.ID] = &m
		movies.order = append(movies.order, m.ID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/movies?name=matrix&genre=scifi", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var e struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	require.Len(t, e.Data, 2)
	assert.Equal(t, "Matrix", e.Data[0]["name"])
	assert.Equal(t, "Matrix Reloaded", e.Data[1]["name"])
}

func TestMovieDelete(t *testing.T) {
	r, movies := newMovieRouter(t, "a@x.com", nil)
	movies.byID["movie-1"] = &entity.Movie{ID: "movie-1", Name: "Dune", UserID: "user-a"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/movies/movie-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, movies.byID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/movies/movie-1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMovieDelete_OtherUsersEntry(t *testing.T) {
	r, movies := newMovieRouter(t, "b@x.com", nil)
	movies.byID["movie-1"] = &entity.Movie{ID: "movie-1", Name: "Dune", UserID: "user-a"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/movies/movie-1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotEmpty(t, movies.byID)
}
