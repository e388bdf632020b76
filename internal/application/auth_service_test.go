package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelist/reelist-api/internal/domain/entity"
	"github.com/reelist/reelist-api/pkg/helpers"
	"github.com/reelist/reelist-api/pkg/mailer"
)

// -------- test fakes --------

type fakeUserRepo struct {
	byEmail map[string]*entity.User
	nextID  int
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byEmail[email], nil
}

type fakePublisher struct {
	published []any
	err       error
}

func (f *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, body)
	return nil
}

func newAuthService(repo *fakeUserRepo, pub *fakePublisher) *AuthService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	var enq EmailEnqueuer
	if pub != nil {
		enq = pub
	}
	return NewAuthService(repo, jwt, enq, nil)
}

// -------- tests --------

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := newAuthService(repo, pub)

	err := svc.Register(context.Background(), "alice", "a@x.com", "pw12345678")
	require.NoError(t, err)

	u := repo.byEmail["a@x.com"]
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ID)
	// stored hash must verify, and must not be the plaintext
	assert.NotEqual(t, "pw12345678", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "pw12345678"))

	require.Len(t, pub.published, 1)
	job, ok := pub.published[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, mailer.TemplateWelcome, job.Template)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "a@x.com", "pw12345678"))
	err := svc.Register(ctx, "impostor", "a@x.com", "other-password")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// first account untouched
	assert.Equal(t, "alice", repo.byEmail["a@x.com"].Username)
}

func TestRegister_EnqueueFailureDoesNotFailRegistration(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{err: errors.New("amqp down")}
	svc := newAuthService(repo, pub)

	err := svc.Register(context.Background(), "alice", "a@x.com", "pw12345678")
	require.NoError(t, err)
	require.NotNil(t, repo.byEmail["a@x.com"])
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "a@x.com", "pw12345678"))

	token, exp, err := svc.Login(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	claims, err := svc.JWT.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, repo.byEmail["a@x.com"].ID, claims.UserID)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo(), nil)

	_, _, err := svc.Login(context.Background(), "nobody@x.com", "pw12345678")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "a@x.com", "pw12345678"))

	_, _, err := svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RepoError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("db down")
	svc := newAuthService(repo, nil)

	_, _, err := svc.Login(context.Background(), "a@x.com", "pw12345678")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
