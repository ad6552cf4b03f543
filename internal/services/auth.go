package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	perrors "github.com/claireundgeorge/accessible-site/internal/pkg/errors"
	"github.com/claireundgeorge/accessible-site/internal/platform/apierr"
	"github.com/claireundgeorge/accessible-site/internal/platform/ctxutil"
	"github.com/claireundgeorge/accessible-site/internal/platform/envutil"
	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

const tokenIssuer = "accessible-site-cms"

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	EditorEmail  string
	PasswordHash string
}

// AuthConfigFromEnv reads the single CMS editor account. A plain
// CMS_EDITOR_PASSWORD is hashed at startup when no hash is given.
func AuthConfigFromEnv(log *logger.Logger) (AuthConfig, error) {
	cfg := AuthConfig{
		JWTSecret:    envutil.String("CMS_JWT_SECRET", "", log),
		TokenTTL:     envutil.Duration("CMS_TOKEN_TTL", 12*time.Hour, time.Second, log),
		EditorEmail:  strings.ToLower(envutil.String("CMS_EDITOR_EMAIL", "", log)),
		PasswordHash: envutil.String("CMS_EDITOR_PASSWORD_HASH", "", log),
	}
	if cfg.PasswordHash == "" {
		if plain := envutil.String("CMS_EDITOR_PASSWORD", "", log); plain != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
			if err != nil {
				return cfg, fmt.Errorf("hash editor password: %w", err)
			}
			cfg.PasswordHash = string(h)
		}
	}
	if cfg.JWTSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return cfg, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(buf)
		log.Warn("CMS_JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
	}
	return cfg, nil
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	accessTTL    time.Duration
	editorEmail  string
	passwordHash []byte
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.EditorEmail == "" || cfg.PasswordHash == "" {
		serviceLog.Warn("No CMS editor configured; CMS login is disabled")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &authService{
		log:          serviceLog,
		jwtSecretKey: []byte(cfg.JWTSecret),
		accessTTL:    cfg.TokenTTL,
		editorEmail:  strings.ToLower(strings.TrimSpace(cfg.EditorEmail)),
		passwordHash: []byte(cfg.PasswordHash),
		now:          time.Now,
	}
}

func unauthorized(msg string) error {
	return apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("%w: %s", perrors.ErrUnauthorized, msg))
}

func (as *authService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", time.Time{}, apierr.BadRequest("validation_error", fmt.Errorf("%w: email and password are required", perrors.ErrInvalidArgument))
	}
	if as.editorEmail == "" || len(as.passwordHash) == 0 {
		return "", time.Time{}, unauthorized("cms login is disabled")
	}
	// Compare the hash even for an unknown email so both paths take as long.
	hashErr := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password))
	if email != as.editorEmail || hashErr != nil {
		as.log.Warn("CMS login rejected", "email", email)
		return "", time.Time{}, unauthorized("invalid email or password")
	}

	now := as.now()
	expiresAt := now.Add(as.accessTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	as.log.Info("CMS editor logged in", "email", email)
	return token, expiresAt, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, unauthorized("missing token")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(as.now),
	)
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return as.jwtSecretKey, nil
	})
	if err != nil || !parsed.Valid {
		return ctx, unauthorized("invalid or expired token")
	}
	if claims.Subject == "" {
		return ctx, unauthorized("token has no subject")
	}
	return ctxutil.WithEditor(ctx, claims.Subject), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
