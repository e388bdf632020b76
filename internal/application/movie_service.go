package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/reelist/reelist-api/internal/domain/entity"
	repo "github.com/reelist/reelist-api/internal/domain/repository"
)

// PosterUploader turns raw image bytes into a hosted, publicly
// retrievable URL. Implemented by the ImgBB client and the GCS uploader.
type PosterUploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// MovieService enforces ownership on every watchlist operation. Caller
// identity arrives as an email already verified by the transport layer
// and is re-resolved to an owner id on each call; ownership is never
// cached across requests.
type MovieService struct {
	Movies        repo.MovieRepository
	Users         repo.UserRepository
	Uploader      PosterUploader
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESMoviesIndex string
}

func NewMovieService(movies repo.MovieRepository, users repo.UserRepository, uploader PosterUploader, logger *logrus.Logger, es *elasticsearch.Client, esMoviesIndex string) *MovieService {
	return &MovieService{
		Movies:        movies,
		Users:         users,
		Uploader:      uploader,
		Logger:        logger,
		ES:            es,
		ESMoviesIndex: esMoviesIndex,
	}
}

// MovieInput carries the caller-supplied fields for add and update.
// Update applies it as a whole-record replace: empty Link/Genre
// overwrite the stored values. Poster is only acted on when non-empty.
type MovieInput struct {
	Name        string
	Description string
	Link        string
	Genre       string
	Poster      []byte
	PosterName  string
}

func (s *MovieService) resolveOwner(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// AddMovie creates a watchlist entry for the caller. When a poster is
// supplied the upload must complete before anything is persisted, so a
// failed upload leaves no partial record behind.
func (s *MovieService) AddMovie(ctx context.Context, callerEmail string, in MovieInput) (*entity.Movie, error) {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return nil, err
	}

	posterURL, err := s.uploadPoster(ctx, in)
	if err != nil {
		return nil, err
	}

	m := &entity.Movie{
		Name:        in.Name,
		Description: in.Description,
		Link:        in.Link,
		Genre:       in.Genre,
		PosterURL:   posterURL,
		UserID:      owner.ID,
	}
	if err := s.Movies.Create(ctx, m); err != nil {
		return nil, err
	}
	s.indexMovie(ctx, m)
	return m, nil
}

// UpdateMovie replaces the entry's fields with the supplied values.
// The ownership check runs before any mutation, and the repository
// write is owner-conditional so the check cannot go stale in between.
func (s *MovieService) UpdateMovie(ctx context.Context, callerEmail, movieID string, in MovieInput) (*entity.Movie, error) {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	m, err := s.Movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMovieNotFound
	}
	if m.UserID != owner.ID {
		return nil, ErrNotOwner
	}

	m.Name = in.Name
	m.Description = in.Description
	m.Link = in.Link
	m.Genre = in.Genre
	if len(in.Poster) > 0 {
		url, upErr := s.uploadPoster(ctx, in)
		if upErr != nil {
			return nil, upErr
		}
		m.PosterURL = url
	}

	ok, err := s.Movies.UpdateOwned(ctx, m)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Row vanished or changed hands between read and write.
		return nil, ErrMovieNotFound
	}
	s.indexMovie(ctx, m)
	return m, nil
}

// GetMovie returns a single entry; read-only.
func (s *MovieService) GetMovie(ctx context.Context, callerEmail, movieID string) (*entity.Movie, error) {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	m, err := s.Movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMovieNotFound
	}
	if m.UserID != owner.ID {
		return nil, ErrNotOwner
	}
	return m, nil
}

// ListMovies returns the caller's entries, optionally narrowed by a
// case-insensitive name substring and/or exact genre.
func (s *MovieService) ListMovies(ctx context.Context, callerEmail, nameFilter, genreFilter string) ([]*entity.Movie, error) {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	return s.Movies.ListByOwner(ctx, owner.ID, repo.MovieFilter{Name: nameFilter, Genre: genreFilter})
}

// DeleteMovie removes the entry permanently. Same owner-conditional
// write discipline as UpdateMovie.
func (s *MovieService) DeleteMovie(ctx context.Context, callerEmail, movieID string) error {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return err
	}
	m, err := s.Movies.GetByID(ctx, movieID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMovieNotFound
	}
	if m.UserID != owner.ID {
		return ErrNotOwner
	}
	ok, err := s.Movies.DeleteOwned(ctx, movieID, owner.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMovieNotFound
	}
	s.deindexMovie(ctx, movieID)
	return nil
}

func (s *MovieService) uploadPoster(ctx context.Context, in MovieInput) (string, error) {
	if len(in.Poster) == 0 {
		return "", nil
	}
	url, err := s.Uploader.Upload(ctx, in.Poster, in.PosterName)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("filename", in.PosterName).Error("poster upload failed")
		}
		return "", ErrUploadFailed
	}
	return url, nil
}

func (s *MovieService) indexMovie(ctx context.Context, m *entity.Movie) {
	if s.ES == nil || s.ESMoviesIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          m.ID,
		"name":        m.Name,
		"description": m.Description,
		"genre":       m.Genre,
		"user_id":     m.UserID,
		"updated_at":  m.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESMoviesIndex, DocumentID: m.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("movie_id", m.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("movie_id", m.ID).Warn("es index response error")
	}
}

func (s *MovieService) deindexMovie(ctx context.Context, movieID string) {
	if s.ES == nil || s.ESMoviesIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESMoviesIndex, DocumentID: movieID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("movie_id", movieID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchMovies runs a full-text query over the caller's own entries via
// Elasticsearch. Returns an empty result when search is not configured.
func (s *MovieService) SearchMovies(ctx context.Context, callerEmail, q string, size int) ([]map[string]any, error) {
	owner, err := s.resolveOwner(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if s.ES == nil || s.ESMoviesIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"name^2", "description", "genre"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": owner.ID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESMoviesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
