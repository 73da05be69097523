package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type JWTService struct {
	context.DefaultService

	AccessTokenDuration time.Duration
	jwtSecretKey        string
}

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

const JWT_SVC = "jwt_svc"

const jwtIssuer = "launchpad"

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{AccessTokenDuration: ttl, jwtSecretKey: secret}
}

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Configure(ctx *context.Context) error {
	svc.AccessTokenDuration = 24 * time.Hour
	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
		}
		svc.AccessTokenDuration = d
	}

	svc.jwtSecretKey = os.Getenv("JWT_SECRET")
	if svc.jwtSecretKey == "" {
		if os.Getenv("ENV") == "production" {
			return errors.New("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
		svc.jwtSecretKey = "launchpad-dev-secret"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *JWTService) Start() error {
	return nil
}

func (svc *JWTService) parse(jwtToken string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtToken, &CustomClaims{}, svc.getJWTKey,
		jwt.WithIssuer(jwtIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("unsupported JWT format")
	}
	return claims, nil
}

// VerifyJWTToken returns the user id carried by a valid, unexpired token.
func (svc *JWTService) VerifyJWTToken(jwtToken string) (string, error) {
	claims, err := svc.parse(jwtToken)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (svc *JWTService) ExpiresAt(jwtToken string) (*time.Time, error) {
	claims, err := svc.parse(jwtToken)
	if err != nil {
		return nil, err
	}
	exp := claims.ExpiresAt.Time
	return &exp, nil
}

func (svc *JWTService) getJWTKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	return []byte(svc.jwtSecretKey), nil
}

func (svc *JWTService) ToJWT(userID string) (string, error) {
	now := time.Now()

	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(svc.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(svc.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}

func (svc *JWTService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", errors.New("invalid authorization header format")
	}

	return authHeader[7:], nil
}
