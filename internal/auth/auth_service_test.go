package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	autherrors "github.com/Toretto00/salary-calculator/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users       map[string]*User // keyed by email
	updatedHash string
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeUserRepo) Create(ctx context.Context, u *User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	f.updatedHash = passwordHash
	return nil
}

func newAuthTestService(t *testing.T, repo Repository) *service {
	t.Helper()
	svc := NewService(nil, repo, zap.NewNop()).(*service)
	svc.secret = func() []byte { return []byte("test-secret") }
	return svc
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	empID := uuid.New()
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		EmployeeID:   &empID,
	}
	repo.users[email] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	user := seedUser(t, repo, "alice@example.com", "s3cret-pass", RoleAdmin)
	svc := newAuthTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Alice@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), resp.User.ID)
	assert.Equal(t, RoleAdmin, resp.User.Role)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)

	claims, err := svc.parseToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, user.EmployeeID.String(), claims["employee_id"])
	assert.Equal(t, RoleAdmin, claims["role"])
	assert.Equal(t, "access", claims["token_type"])
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	seedUser(t, repo, "alice@example.com", "s3cret-pass", RoleEmployee)
	svc := newAuthTestService(t, repo)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthTestService(t, &fakeUserRepo{users: map[string]*User{}})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestRefresh_IssuesNewPair(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	seedUser(t, repo, "alice@example.com", "s3cret-pass", RoleEmployee)
	svc := newAuthTestService(t, repo)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	seedUser(t, repo, "alice@example.com", "s3cret-pass", RoleEmployee)
	svc := newAuthTestService(t, repo)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.Tokens.AccessToken)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestRefresh_RejectsExpiredToken(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	user := seedUser(t, repo, "alice@example.com", "s3cret-pass", RoleEmployee)
	svc := newAuthTestService(t, repo)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID.String(),
		"token_type": "refresh",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokenString)
	assert.ErrorIs(t, err, autherrors.ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*User{}}
	user := seedUser(t, repo, "alice@example.com", "old-password", RoleEmployee)
	svc := newAuthTestService(t, repo)

	err := svc.ChangePassword(context.Background(), user.ID.String(), ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password-1",
	})
	assert.ErrorIs(t, err, autherrors.ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID.String(), ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-1",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("new-password-1")))
}
