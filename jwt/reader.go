package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects how tokens are verified when verification is enabled.
type SigningMethod string

const (
	// MethodNone decodes claims without verifying the signature.
	MethodNone SigningMethod = ""
	// MethodHS256 verifies with a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 verifies with an Ed25519 public key.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrTokenExpired is returned by [Reader.Read] for a token whose exp lies in the past.
var ErrTokenExpired = errors.New("session token expired")

// ErrTokenMalformed is returned when the token cannot be decoded at all.
var ErrTokenMalformed = errors.New("session token malformed")

// Config configures a [Reader].
type Config struct {
	SigningMethod SigningMethod
	// Key is the HS256 secret or the Ed25519 public key (raw or PEM).
	Key    []byte
	Issuer string
	Leeway time.Duration
}

// Claims is the subset of the backend token the client relies on. The backend has issued
// the user id as "id" and as "sub" over time; [Claims.UserID] reads either.
type Claims struct {
	ID          string `json:"id,omitempty"`
	Role        string `json:"role,omitempty"`
	Name        string `json:"name,omitempty"`
	CollegeName string `json:"collegeName,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the id claim, falling back to sub.
func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	if c.ID != "" {
		return c.ID
	}
	return c.Subject
}

// Expiry returns the exp claim, or the zero time when the token carries none.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Reader decodes session tokens.
type Reader struct {
	config    Config
	verifyKey interface{}
	now       func() time.Time
}

// NewReader validates cfg and returns a Reader.
func NewReader(cfg Config) (*Reader, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	r := &Reader{config: cfg, now: time.Now}
	switch cfg.SigningMethod {
	case MethodNone:
	case MethodHS256:
		if len(cfg.Key) == 0 {
			return nil, errors.New("hs256 requires a secret")
		}
		r.verifyKey = cfg.Key
	case MethodEd25519:
		key, err := parseEdPublicKey(cfg.Key)
		if err != nil {
			return nil, err
		}
		r.verifyKey = key
	default:
		return nil, errors.New("unsupported signing method")
	}
	return r, nil
}

// Verifying reports whether signatures are checked.
func (r *Reader) Verifying() bool {
	return r != nil && r.config.SigningMethod != MethodNone
}

// Read decodes tokenStr. Expired tokens return the decoded claims together with
// [ErrTokenExpired] so callers can still inspect them.
func (r *Reader) Read(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, ErrTokenMalformed
	}
	if !r.Verifying() {
		return r.readUnverified(tokenStr)
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{r.method().Alg()}),
		jwt.WithTimeFunc(r.now),
	}
	if r.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(r.config.Leeway))
	}
	if r.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(r.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != r.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return r.verifyKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (r *Reader) readUnverified(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrTokenMalformed
	}
	if exp := claims.Expiry(); !exp.IsZero() && !r.now().Before(exp.Add(r.config.Leeway)) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

func (r *Reader) method() jwt.SigningMethod {
	switch r.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
