package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"book-marketplace/internal/domains/user"
	"book-marketplace/pkg/jwt"
)

type memRepo struct {
	byID      map[int64]*user.User
	nextID    int64
	createErr error
	findErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[int64]*user.User{}, nextID: 1}
}

func (r *memRepo) Create(_ context.Context, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.nextID++
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrUserNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func newTestService() (user.Service, *memRepo, *jwt.Manager) {
	repo := newMemRepo()
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewUserService(repo, tokens, bcrypt.MinCost), repo, tokens
}

func register(t *testing.T, svc user.Service) *user.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), user.RegisterRequest{
		Name:     "Ann",
		Email:    "Ann@Example.com",
		Password: "hunter2",
		Role:     user.RoleSeller,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	svc, repo, tokens := newTestService()

	resp := register(t, svc)

	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.Equal(t, user.RoleSeller, resp.User.Role)
	assert.True(t, tokens.ValidateToken(resp.Token))

	stored := repo.byID[1]
	assert.NotEqual(t, "hunter2", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2")))
}

func TestRegisterDefaultsRoleToBuyer(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Register(context.Background(), user.RegisterRequest{Name: "Bo", Email: "bo@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, user.RoleBuyer, resp.User.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), user.RegisterRequest{Name: "Ann 2", Email: "ann@example.com", Password: "x"})

	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	assert.Len(t, repo.byID, 1)
}

func TestRegisterInvalidRequest(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Register(context.Background(), user.RegisterRequest{Name: "Ann", Email: "nope", Password: "x"})

	assert.Error(t, err)
	assert.Empty(t, repo.byID)
}

func TestLogin(t *testing.T) {
	svc, _, tokens := newTestService()
	register(t, svc)

	resp, err := svc.Login(context.Background(), user.LoginRequest{Email: "ann@example.com", Password: "hunter2"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.User.ID)
	email, err := tokens.ExtractEmail(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Login(context.Background(), user.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), user.LoginRequest{Email: "ghost@example.com", Password: "hunter2"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestLoginRepositoryFailureIsNotCredentials(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.findErr = errors.New("db down")

	_, err := svc.Login(context.Background(), user.LoginRequest{Email: "ann@example.com", Password: "x"})

	assert.ErrorIs(t, err, repo.findErr)
	assert.NotErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newTestService()
	register(t, svc)

	dto, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ann", dto.Name)

	_, err = svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestValidateToken(t *testing.T) {
	svc, repo, tokens := newTestService()
	resp := register(t, svc)
	ctx := context.Background()

	got, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, got.Valid)
	require.NotNil(t, got.User)
	assert.Equal(t, int64(1), got.User.ID)

	got, err = svc.ValidateToken(ctx, "garbage")
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Nil(t, got.User)

	// signed correctly, but for an email that no longer exists
	orphan, err := tokens.GenerateToken(99, "gone@example.com", "BUYER")
	require.NoError(t, err)
	got, err = svc.ValidateToken(ctx, orphan)
	require.NoError(t, err)
	assert.False(t, got.Valid)

	repo.findErr = errors.New("db down")
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.Error(t, err)
}
