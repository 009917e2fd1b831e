package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/policydesk/policydesk-backend/internal/platform/logger"
	"github.com/policydesk/policydesk-backend/internal/repos"
	"github.com/policydesk/policydesk-backend/internal/requestdata"
	"github.com/policydesk/policydesk-backend/internal/types"
	"github.com/policydesk/policydesk-backend/internal/utils"
)

type AuthService interface {
	RegisterUser(ctx context.Context, name, email, password, role string) (*types.User, *TokenPair, error)
	LoginUser(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, name, email, password, role string) (*types.User, *TokenPair, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if errs := utils.ValidateRegistration(name, email, password); errs != nil {
		return nil, nil, &ValidationError{Fields: errs}
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("email %q is already in use: %w", email, ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	as.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, fmt.Errorf("email and password are required: %w", ErrUnauthorized)
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error) {
	record, secret, err := as.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record.Revoked || time.Now().After(record.ExpiresAt) {
		return nil, fmt.Errorf("refresh token expired or revoked: %w", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(secret)); err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}

	user, err := as.userRepo.GetByID(ctx, nil, record.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rotation: the old token is dead as soon as a new pair exists.
		if err := as.userTokenRepo.Revoke(ctx, tx, record.ID); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		// Rotation is a natural point to drop tokens past their expiry.
		if err := as.userTokenRepo.DeleteExpired(ctx, tx, time.Now()); err != nil {
			return fmt.Errorf("purge expired tokens: %w", err)
		}
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context, refreshToken string) error {
	record, _, err := as.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := as.userTokenRepo.Revoke(ctx, nil, record.ID); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// SetContextFromToken validates an access token and stores the authenticated
// identity in the request context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, fmt.Errorf("invalid access token: %w", ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, fmt.Errorf("invalid token claims: %w", ErrUnauthorized)
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return ctx, fmt.Errorf("invalid token subject: %w", ErrUnauthorized)
	}

	user, err := as.userRepo.GetByID(ctx, nil, uint(sub))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, fmt.Errorf("unknown user: %w", ErrUnauthorized)
		}
		return ctx, fmt.Errorf("load user: %w", err)
	}

	return requestdata.WithRequestData(ctx, &requestdata.RequestData{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}), nil
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   float64(user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	tokenID := uuid.New()
	secret := uuid.NewString()
	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}
	record := &types.UserToken{
		ID:        tokenID,
		UserID:    user.ID,
		TokenHash: string(secretHash),
		ExpiresAt: now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: tokenID.String() + "." + secret,
		TokenType:    "Bearer",
	}, nil
}

// lookupRefreshToken splits the opaque "<id>.<secret>" value and loads the
// matching record. The secret is returned for the caller's bcrypt comparison.
func (as *authService) lookupRefreshToken(ctx context.Context, refreshToken string) (*types.UserToken, string, error) {
	parts := strings.SplitN(refreshToken, ".", 2)
	if len(parts) != 2 {
		return nil, "", fmt.Errorf("malformed refresh token: %w", ErrUnauthorized)
	}
	tokenID, err := uuid.Parse(parts[0])
	if err != nil {
		return nil, "", fmt.Errorf("malformed refresh token: %w", ErrUnauthorized)
	}
	record, err := as.userTokenRepo.GetByID(ctx, nil, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("unknown refresh token: %w", ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("load refresh token: %w", err)
	}
	return record, parts[1], nil
}
