package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	signed, err := tokens.Issue(7, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.UserID != 7 {
		t.Errorf("unexpected claims: subject=%q user_id=%d", claims.Subject, claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expiry and issued-at must be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("ttl: got %v, want 1h", got)
	}
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), -time.Second)

	signed, err := tokens.Issue(1, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = tokens.Verify(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	signed, err := NewTokens([]byte("secret-a"), time.Hour).Issue(1, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = NewTokens([]byte("secret-b"), time.Hour).Verify(signed)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}
}

func TestTokens_TamperedPayload(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	signed, err := tokens.Issue(1, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Swap the subject claim without re-signing.
	parts := strings.Split(signed, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	body["sub"] = "mallory"
	forged, _ := json.Marshal(body)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = tokens.Verify(strings.Join(parts, "."))
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}
}

func TestTokens_Malformed(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c.d", "not base64.at all.here"} {
		if _, err := tokens.Verify(bad); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Verify(%q): got %v, want ErrMalformedToken", bad, err)
		}
	}
}

func TestTokens_RejectsNoneAlgorithm(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign with none: %v", err)
	}

	if _, err := tokens.Verify(signed); err == nil {
		t.Fatal("token signed with alg=none must be rejected")
	}
}

func TestTokens_MissingSubject(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)

	anon := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
	})
	signed, err := anon.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tokens.Verify(signed); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("got %v, want ErrMalformedToken for missing subject", err)
	}
}
