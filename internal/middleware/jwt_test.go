package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wishlyst/giftregistry/internal/auth"
)

func gateWithEcho(tokens *auth.Tokens) http.Handler {
	return Authenticator(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := Identity(r.Context())
		if claims == nil {
			http.Error(w, "no identity", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"subject": claims.Subject})
	}))
}

func TestAuthenticator_ValidToken(t *testing.T) {
	tokens := auth.NewTokens([]byte("gate-secret"), time.Hour)
	signed, err := tokens.Issue(3, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/lists", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rr := httptest.NewRecorder()
	gateWithEcho(tokens).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["subject"] != "alice" {
		t.Errorf("subject: got %q, want alice", out["subject"])
	}
}

func TestAuthenticator_Unauthenticated(t *testing.T) {
	tokens := auth.NewTokens([]byte("gate-secret"), time.Hour)
	expired, err := auth.NewTokens([]byte("gate-secret"), -time.Second).Issue(3, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	otherKey, err := auth.NewTokens([]byte("different-secret"), time.Hour).Issue(3, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bearer without token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"wrong key", "Bearer " + otherKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/lists", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			gateWithEcho(tokens).ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rr.Code)
			}
			// Every rejection shares one body so clients cannot tell
			// sub-reasons apart.
			var out map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out["error"] != "unauthenticated" {
				t.Errorf("error: got %q, want unauthenticated", out["error"])
			}
		})
	}
}

func TestIdentity_OutsideGate(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if claims := Identity(req.Context()); claims != nil {
		t.Errorf("expected nil identity, got %+v", claims)
	}
}
