package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/project-showcase-backend/config"
	"github.com/rpupo63/project-showcase-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session is the authenticated caller resolved from a request
type Session struct {
	AuthorID  uuid.UUID `json:"authorId"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionResolver looks up the session for a request. A nil session with a
// nil error means the caller is not authenticated. The response writer lets
// implementations refresh cookies.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (*Session, error)
}

type SessionConfig struct {
	Secret     []byte
	Issuer     string
	CookieName string
	MaxAge     time.Duration
	UpdateAge  time.Duration
	Secure     bool
}

// SessionConfigFromEnv reads SESSION_SECRET (required), SESSION_ISSUER,
// SESSION_COOKIE_NAME, SESSION_MAX_AGE_SECONDS, SESSION_UPDATE_AGE_SECONDS
// and SESSION_COOKIE_SECURE.
func SessionConfigFromEnv(c map[string]string) (SessionConfig, error) {
	secret := config.GetString(c, "SESSION_SECRET", "")
	if secret == "" {
		return SessionConfig{}, errs.NewConfigMissingError("SESSION_SECRET")
	}
	if len(secret) < 32 {
		return SessionConfig{}, errs.NewConfigInvalidError("SESSION_SECRET", errors.New("must be at least 32 bytes"))
	}

	return SessionConfig{
		Secret:     []byte(secret),
		Issuer:     config.GetString(c, "SESSION_ISSUER", "project-showcase"),
		CookieName: config.GetString(c, "SESSION_COOKIE_NAME", "session-token"),
		MaxAge:     config.GetSeconds(c, "SESSION_MAX_AGE_SECONDS", 30*24*time.Hour),
		UpdateAge:  config.GetSeconds(c, "SESSION_UPDATE_AGE_SECONDS", 24*time.Hour),
		Secure:     config.GetBool(c, "SESSION_COOKIE_SECURE", true),
	}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IssueSessionToken signs an HS256 session token for the author valid for
// cfg.MaxAge from now.
func IssueSessionToken(cfg SessionConfig, authorID uuid.UUID, email, name string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.MaxAge)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   authorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Name:  name,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// JWTSessionResolver reads a signed session token from the session cookie or
// an Authorization bearer header.
type JWTSessionResolver struct {
	cfg    SessionConfig
	now    func() time.Time
	logger zerolog.Logger
}

func NewJWTSessionResolver(cfg SessionConfig) *JWTSessionResolver {
	return &JWTSessionResolver{
		cfg:    cfg,
		now:    time.Now,
		logger: log.With().Str("component", "sessionResolver").Logger(),
	}
}

func (s *JWTSessionResolver) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	raw, fromCookie := s.tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected session token")
		return nil, nil
	}

	authorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.logger.Debug().Str("subject", claims.Subject).Msg("session subject is not a uuid")
		return nil, nil
	}

	session := &Session{
		AuthorID:  authorID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}

	if fromCookie && s.cfg.UpdateAge > 0 && s.now().Sub(session.IssuedAt) >= s.cfg.UpdateAge {
		if err := s.refresh(w, session); err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
	}

	return session, nil
}

// refresh re-issues the cookie so active sessions slide forward
func (s *JWTSessionResolver) refresh(w http.ResponseWriter, session *Session) error {
	now := s.now()
	token, expiresAt, err := IssueSessionToken(s.cfg, session.AuthorID, session.Email, session.Name, now)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.cfg.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	session.IssuedAt = now.Truncate(time.Second)
	session.ExpiresAt = expiresAt.Truncate(time.Second)
	return nil
}

func (s *JWTSessionResolver) tokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	if cookie, err := r.Cookie(s.cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), false
	}
	return "", false
}
