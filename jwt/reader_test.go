package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func signHS(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestReadUnverifiedClaims(t *testing.T) {
	r, err := NewReader(Config{})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	token := signHS(t, []byte("whatever-backend-secret"), Claims{
		ID:   "u-1",
		Role: "hostel-admin",
		Name: "Asha",
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := r.Read(token)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if claims.UserID() != "u-1" || claims.Role != "hostel-admin" || claims.Name != "Asha" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestReadFallsBackToSubject(t *testing.T) {
	r, _ := NewReader(Config{})
	token := signHS(t, []byte("k"), Claims{RegisteredClaims: gjwt.RegisteredClaims{Subject: "sub-9"}})
	claims, err := r.Read(token)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if claims.UserID() != "sub-9" {
		t.Fatalf("expected sub fallback, got %q", claims.UserID())
	}
	if !claims.Expiry().IsZero() {
		t.Fatal("expected zero expiry without exp claim")
	}
}

func TestReadExpiredReturnsClaims(t *testing.T) {
	r, _ := NewReader(Config{})
	token := signHS(t, []byte("k"), Claims{
		Role: "student",
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	claims, err := r.Read(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if claims == nil || claims.Role != "student" {
		t.Fatalf("expected claims alongside expiry error, got %+v", claims)
	}
}

func TestReadMalformed(t *testing.T) {
	r, _ := NewReader(Config{})
	for _, in := range []string{"", "   ", "not.a.jwt", "abc"} {
		if _, err := r.Read(in); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Read(%q) = %v, want ErrTokenMalformed", in, err)
		}
	}
}

func TestReadVerifiedHS256(t *testing.T) {
	secret := []byte("campus-secret-campus-secret")
	r, err := NewReader(Config{SigningMethod: MethodHS256, Key: secret, Issuer: "campus"})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	good := signHS(t, secret, Claims{Role: "mess_admin", RegisteredClaims: gjwt.RegisteredClaims{Issuer: "campus"}})
	if _, err := r.Read(good); err != nil {
		t.Fatalf("expected valid token: %v", err)
	}

	forged := signHS(t, []byte("another-secret-entirely"), Claims{Role: "super_admin", RegisteredClaims: gjwt.RegisteredClaims{Issuer: "campus"}})
	if _, err := r.Read(forged); err == nil {
		t.Fatal("expected forged token to be rejected")
	}

	wrongIssuer := signHS(t, secret, Claims{Role: "mess_admin", RegisteredClaims: gjwt.RegisteredClaims{Issuer: "other"}})
	if _, err := r.Read(wrongIssuer); err == nil {
		t.Fatal("expected wrong issuer to be rejected")
	}
}

func TestReadVerifiedEd25519RejectsHS256(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	r, err := NewReader(Config{SigningMethod: MethodEd25519, Key: pub})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	signed, err := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, Claims{Role: "student"}).SignedString(priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := r.Read(signed); err != nil {
		t.Fatalf("expected ed25519 token to verify: %v", err)
	}

	hs := signHS(t, []byte("secret-secret-secret-secret"), Claims{Role: "student"})
	if _, err := r.Read(hs); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestNewReaderRejectsBadConfig(t *testing.T) {
	if _, err := NewReader(Config{SigningMethod: MethodHS256}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, err := NewReader(Config{SigningMethod: "rs512"}); err == nil {
		t.Fatal("expected unsupported method to fail")
	}
	if _, err := NewReader(Config{Leeway: time.Hour}); err == nil {
		t.Fatal("expected oversized leeway to fail")
	}
}
