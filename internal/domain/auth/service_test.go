package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"clinova/internal/core/apperror"
	"clinova/internal/core/id"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memUserRepo struct {
	byEmail map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", userID.String())
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func (m *memUserRepo) Update(ctx context.Context, user *User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUserRepo) Delete(ctx context.Context, userID id.ID) error { return nil }

func (m *memUserRepo) List(ctx context.Context, filter UserFilter) ([]User, int, error) {
	return nil, 0, nil
}

func (m *memUserRepo) LoadRoles(ctx context.Context, userID id.ID) ([]Role, error) {
	return nil, nil
}

func (m *memUserRepo) LoadPermissions(ctx context.Context, userID id.ID) ([]string, error) {
	return nil, nil
}

func (m *memUserRepo) AssignRole(ctx context.Context, userID, roleID id.ID, grantedBy id.ID) error {
	return nil
}

func (m *memUserRepo) RevokeRole(ctx context.Context, userID, roleID id.ID) error { return nil }

func (m *memUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

type memRoleRepo struct{}

func (memRoleRepo) Create(ctx context.Context, role *Role) error { return nil }
func (memRoleRepo) GetByCode(ctx context.Context, code string) (*Role, error) {
	return nil, apperror.NewNotFound("role", code)
}
func (memRoleRepo) List(ctx context.Context) ([]Role, error) { return nil, nil }
func (memRoleRepo) LoadPermissions(ctx context.Context, roleID id.ID) ([]Permission, error) {
	return nil, nil
}

type memTokenRepo struct {
	byHash map[string]*RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byHash: make(map[string]*RefreshToken)}
}

func (m *memTokenRepo) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	m.byHash[token.TokenHash] = token
	return nil
}

func (m *memTokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	t, ok := m.byHash[tokenHash]
	if !ok {
		return nil, apperror.NewNotFound("token", tokenHash)
	}
	return t, nil
}

func (m *memTokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	for _, t := range m.byHash {
		if t.ID == tokenID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (m *memTokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	for _, t := range m.byHash {
		if t.UserID == userID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (m *memTokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) { return 0, nil }

func newTestService() (*Service, *memUserRepo, *memTokenRepo) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	svc := NewService(
		users, memRoleRepo{}, tokens,
		fakeTxManager{},
		NewJWTService(DefaultJWTConfig("test-secret")),
		DefaultServiceConfig(),
	)
	return svc, users, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:    "amine@clinique.ma",
		Password: "s3cret-pass",
		CIN:      "AB123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "AB123456", user.CIN)

	tokens, logged, err := svc.Login(ctx, Credentials{Email: "amine@clinique.ma", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotNil(t, logged.LastLoginAt)
}

func TestRegister_ShortPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ma", Password: "short"})
	assert.Error(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ma", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@b.ma", Password: "s3cret-pass"})
	assert.Error(t, err)
}

func TestLogin_LockoutAfterFailedAttempts(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ma", Password: "s3cret-pass"})
	require.NoError(t, err)

	for i := 0; i < svc.config.MaxLoginAttempts; i++ {
		_, _, err = svc.Login(ctx, Credentials{Email: "a@b.ma", Password: "wrong"})
		require.Error(t, err)
	}

	assert.True(t, users.byEmail["a@b.ma"].IsLocked())

	// Even the correct password is rejected while locked
	_, _, err = svc.Login(ctx, Credentials{Email: "a@b.ma", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "locked"))
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "a@b.ma", Password: "s3cret-pass"})
	require.NoError(t, err)

	tokens, _, err := svc.Login(ctx, Credentials{Email: "a@b.ma", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	// Old refresh token is single-use
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.Error(t, err)
}

func TestJWT_RoundTrip(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))

	token, expiresAt, err := jwtSvc.GenerateAccessToken(
		"user-1", "AB123456", "amine@clinique.ma",
		[]string{"medecin"}, []string{"facture:write"}, true,
	)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
	assert.Equal(t, "AB123456", user.CIN)
	assert.Equal(t, []string{"medecin"}, user.Roles)
	assert.Equal(t, []string{"facture:write"}, user.Permissions)
	assert.True(t, user.IsAdmin)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, _, err := NewJWTService(DefaultJWTConfig("secret-a")).
		GenerateAccessToken("user-1", "", "a@b.ma", nil, nil, false)
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashCompatible(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret-pass")))
}
