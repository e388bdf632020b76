package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reelist/reelist-api/internal/application"
	"github.com/reelist/reelist-api/internal/domain/entity"
	"github.com/reelist/reelist-api/internal/interface/middleware"
	"github.com/reelist/reelist-api/pkg/response"
)

// Posters above this size are rejected before hitting the upload gateway.
const maxPosterBytes = 10 << 20

type MovieHandler struct {
	Svc    *application.MovieService
	Logger *logrus.Logger
}

func NewMovieHandler(svc *application.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{Svc: svc, Logger: logger}
}

type movieResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	Genre       string `json:"genre,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

func toMovieResponse(m *entity.Movie) movieResponse {
	return movieResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Link:        m.Link,
		Genre:       m.Genre,
		PosterURL:   m.PosterURL,
	}
}

// bindMovieForm reads the multipart fields shared by add and update.
// Absent link/genre come back empty, which update treats as an
// explicit overwrite; an absent poster leaves Poster nil.
func bindMovieForm(c *gin.Context) (application.MovieInput, bool) {
	in := application.MovieInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Link:        c.PostForm("link"),
		Genre:       c.PostForm("genre"),
	}
	file, header, err := c.Request.FormFile("poster")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			response.Error[any](c, http.StatusBadRequest, "invalid poster upload", nil)
			return in, false
		}
		return in, true
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	if header.Size > maxPosterBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "poster too large", nil)
		return in, false
	}
	data, err := io.ReadAll(io.LimitReader(file, maxPosterBytes+1))
	if err != nil || len(data) > maxPosterBytes {
		response.Error[any](c, http.StatusBadRequest, "invalid poster upload", nil)
		return in, false
	}
	in.Poster = data
	in.PosterName = header.Filename
	return in, true
}

func (h *MovieHandler) callerEmail(c *gin.Context) string {
	return c.GetString(middleware.CtxUserEmailKey)
}

// writeMovieError maps the service error kinds onto HTTP statuses.
// Not-owner is deliberately a distinct 403 from a 404 on unknown ids.
func (h *MovieHandler) writeMovieError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrMovieNotFound):
		response.Error[any](c, http.StatusNotFound, "movie not found", nil)
	case errors.Is(err, application.ErrNotOwner):
		response.Error[any](c, http.StatusForbidden, "access denied", nil)
	case errors.Is(err, application.ErrUploadFailed):
		response.Error[any](c, http.StatusBadGateway, "failed to upload poster", nil)
	default:
		h.Logger.WithError(err).Error("movie operation failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}

// Add POST /api/movies (multipart)
func (h *MovieHandler) Add(c *gin.Context) {
	in, ok := bindMovieForm(c)
	if !ok {
		return
	}
	m, err := h.Svc.AddMovie(c.Request.Context(), h.callerEmail(c), in)
	if err != nil {
		h.writeMovieError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toMovieResponse(m), "movie added", nil)
}

// Update PUT /api/movies/:id (multipart)
func (h *MovieHandler) Update(c *gin.Context) {
	in, ok := bindMovieForm(c)
	if !ok {
		return
	}
	m, err := h.Svc.UpdateMovie(c.Request.Context(), h.callerEmail(c), c.Param("id"), in)
	if err != nil {
		h.writeMovieError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toMovieResponse(m), "movie updated", nil)
}

// Get GET /api/movies/:id
func (h *MovieHandler) Get(c *gin.Context) {
	m, err := h.Svc.GetMovie(c.Request.Context(), h.callerEmail(c), c.Param("id"))
	if err != nil {
		h.writeMovieError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toMovieResponse(m), "movie found", nil)
}

// List GET /api/movies?name=&genre=
func (h *MovieHandler) List(c *gin.Context) {
	movies, err := h.Svc.ListMovies(c.Request.Context(), h.callerEmail(c), c.Query("name"), c.Query("genre"))
	if err != nil {
		h.writeMovieError(c, err)
		return
	}
	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	response.Success(c, http.StatusOK, out, "user's watchlist", gin.H{"count": len(out)})
}

// Search GET /api/movies/search?q=&size=
func (h *MovieHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchMovies(c.Request.Context(), h.callerEmail(c), q, size)
	if err != nil {
		h.writeMovieError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Delete DELETE /api/movies/:id
func (h *MovieHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteMovie(c.Request.Context(), h.callerEmail(c), c.Param("id")); err != nil {
		h.writeMovieError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "movie deleted", nil)
}
