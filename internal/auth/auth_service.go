package auth

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	autherrors "github.com/Toretto00/salary-calculator/internal/auth/errors"
	"github.com/Toretto00/salary-calculator/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPairResponse, error)
	Me(ctx context.Context, userID string) (UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	secret func() []byte
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		secret: func() []byte { return []byte(os.Getenv("JWT_SECRET")) },
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		s.logger.Error("login token issue failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("request_id", rid),
		zap.String("user_id", user.ID.String()),
	)
	return LoginResponse{User: mapUserToResponse(*user), Tokens: tokens}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         RoleEmployee,
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.EmployeeID != "" {
		empID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		user.EmployeeID = &empID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("register begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserResponse{}, autherrors.ErrEmailAlreadyExists
		}
		if strings.Contains(err.Error(), "uq_user_email") {
			return UserResponse{}, autherrors.ErrEmailAlreadyExists
		}
		s.logger.Error("register persist failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("register commit failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("register success",
		zap.String("request_id", rid),
		zap.String("user_id", user.ID.String()),
	)
	return mapUserToResponse(*user), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (TokenPairResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return TokenPairResponse{}, err
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != "refresh" {
		return TokenPairResponse{}, autherrors.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPairResponse{}, autherrors.ErrInvalidToken
		}
		s.logger.Error("refresh lookup failed", zap.Error(err))
		return TokenPairResponse{}, err
	}

	return s.issueTokens(user)
}

func (s *service) Me(ctx context.Context, userID string) (UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		s.logger.Error("me lookup failed", zap.Error(err))
		return UserResponse{}, err
	}
	return mapUserToResponse(*user), nil
}

func (s *service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return autherrors.ErrUserNotFound
		}
		s.logger.Error("change password lookup failed", zap.Error(err))
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return autherrors.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		s.logger.Error("change password persist failed", zap.Error(err))
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *service) issueTokens(user *User) (TokenPairResponse, error) {
	now := s.now()

	employeeID := ""
	if user.EmployeeID != nil {
		employeeID = user.EmployeeID.String()
	}

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     user.ID.String(),
		"employee_id": employeeID,
		"role":        user.Role,
		"token_type":  "access",
		"iat":         now.Unix(),
		"exp":         now.Add(accessTokenTTL).Unix(),
	})
	accessToken, err := access.SignedString(s.secret())
	if err != nil {
		return TokenPairResponse{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID.String(),
		"token_type": "refresh",
		"iat":        now.Unix(),
		"exp":        now.Add(refreshTokenTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString(s.secret())
	if err != nil {
		return TokenPairResponse{}, err
	}

	return TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *service) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return s.secret(), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func mapUserToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  u.Role,
	}
	if u.EmployeeID != nil {
		resp.EmployeeID = u.EmployeeID.String()
	}
	return resp
}
