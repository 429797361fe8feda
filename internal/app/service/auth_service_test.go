package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"authsystem/internal/common"
	"authsystem/internal/common/security"
	"authsystem/internal/domain/model"
	"authsystem/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// fakeUserRepo is an in-memory credential store enforcing the same unique
// email/username rule the real schema does.
type fakeUserRepo struct {
	users     map[string]*model.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) DeleteByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	delete(f.users, id)
	return u, nil
}

func newTestService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	require.NoError(t, security.InitJWT())
	repo := newFakeUserRepo()
	return NewAuthService(repo), repo
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "alice@x.com", Password: "pw123",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)

	// The token binds to the new identifier.
	userID, err := security.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestRegister_NeverExposesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice", Email: "alice@x.com", Password: "pw123",
	})
	require.NoError(t, err)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "pw123")
	assert.NotContains(t, string(body), "password")

	// Stored form is a hash, not the plaintext.
	stored, err := repo.FindByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.HashedPassword)
	assert.NotContains(t, string(body), stored.HashedPassword)
}

func TestRegister_Conflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@x.com", Password: "pw1"})
	require.NoError(t, err)

	// Same email, different username.
	_, err = svc.Register(ctx, RegisterRequest{Username: "bob2", Email: "bob@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, common.ErrConflict)

	// Same username, different email.
	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Email: "bob2@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRegister_InsertRaceSurfacesAsConflict(t *testing.T) {
	svc, repo := newTestService(t)

	// The pre-check sees no user, but a concurrent registration wins the
	// insert; the store's unique violation comes back as the same conflict.
	repo.createErr = fmt.Errorf("duplicate key: %w", common.ErrConflict)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "carol", Email: "carol@x.com", Password: "pw",
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "", Email: "a@x.com", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)

	userID, err := security.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, errWrongPassword := svc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "nope"})
	_, errUnknownEmail := svc.Login(ctx, LoginRequest{Email: "ghost@x.com", Password: "pw123"})

	assert.ErrorIs(t, errWrongPassword, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, common.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestGetCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	user, err := svc.GetCurrentUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.HashedPassword)

	_, err = svc.GetCurrentUser(ctx, "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteAccount_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	deleted, err := svc.DeleteAccount(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", deleted.Email)

	// The token's id no longer resolves: both operations report not found.
	_, err = svc.GetCurrentUser(ctx, reg.User.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.DeleteAccount(ctx, reg.User.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
