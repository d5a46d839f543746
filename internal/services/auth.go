package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/aistudio-backend/internal/apierr"
	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/repos"
	"github.com/yungbote/aistudio-backend/internal/types"
)

const sessionTokenTTL = 7 * 24 * time.Hour

type sessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (*types.User, string, error)
	Signin(ctx context.Context, email, password string) (*types.User, string, error)
	// Verify resolves a session token to its user, failing with Unauthorized
	// for missing, malformed, expired, or badly signed tokens.
	Verify(ctx context.Context, tokenString string) (*types.User, error)
	TokenTTL() time.Duration
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecret string) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

func (as *authService) Signup(ctx context.Context, username, email, password string) (*types.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	existing, err := as.userRepo.GetByEmailOrUsername(ctx, nil, email, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing != nil {
		if existing.Email == email {
			return nil, "", apierr.Conflict("user with this email already exists")
		}
		return nil, "", apierr.Conflict("this username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := as.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("User signed up", "user_id", user.ID.String())
	return user, token, nil
}

func (as *authService) Signin(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", apierr.Unauthorized("invalid email")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apierr.Unauthorized("invalid password")
	}

	token, err := as.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	as.log.Info("User signed in", "user_id", user.ID.String())
	return user, token, nil
}

func (as *authService) Verify(ctx context.Context, tokenString string) (*types.User, error) {
	if tokenString == "" {
		return nil, apierr.Unauthorized("missing session token")
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("invalid or expired session token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierr.Unauthorized("malformed session token")
	}
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for token: %w", err)
	}
	if user == nil {
		return nil, apierr.Unauthorized("unknown user")
	}
	return user, nil
}

func (as *authService) TokenTTL() time.Duration {
	return sessionTokenTTL
}

func (as *authService) generateToken(user *types.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: user.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
