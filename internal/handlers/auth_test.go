package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/wishlyst/giftregistry/internal/auth"
	"github.com/wishlyst/giftregistry/internal/repo"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	h := &AuthHandler{
		UserRepo: repo.NewUserRepo(db),
		Hasher:   auth.NewHasher(4),
		Tokens:   auth.NewTokens([]byte("test-secret"), time.Hour),
	}
	return h, mock, func() { db.Close() }
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestAuthHandler_Register(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash\)`).
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(1, "alice", "$2a$04$digest", time.Now()))

	rr := postJSON(t, h.Register, "/auth/register",
		map[string]string{"username": "alice", "password": "s3cret-enough"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var user struct {
		ID           int    `json:"id"`
		Username     string `json:"username"`
		PasswordHash string `json:"password_hash"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Error("password hash must never appear in responses")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash\)`).
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	rr := postJSON(t, h.Register, "/auth/register",
		map[string]string{"username": "alice", "password": "s3cret-enough"})

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rr.Code)
	}
	var out map[string]string
	json.NewDecoder(rr.Body).Decode(&out)
	if out["error"] != "username already taken" {
		t.Errorf("unexpected error: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	cases := []struct {
		name    string
		payload map[string]string
		field   string
	}{
		{"missing username", map[string]string{"password": "s3cret-enough"}, "username"},
		{"padded username", map[string]string{"username": " alice", "password": "s3cret-enough"}, "username"},
		{"short password", map[string]string{"username": "alice", "password": "short"}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, h.Register, "/auth/register", tc.payload)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			var out struct {
				Fields map[string]string `json:"fields"`
			}
			json.NewDecoder(rr.Body).Decode(&out)
			if _, ok := out.Fields[tc.field]; !ok {
				t.Errorf("expected field error for %q, got %v", tc.field, out.Fields)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	digest, err := h.Hasher.Hash("s3cret-enough")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(1, "alice", digest, time.Now()))

	rr := postJSON(t, h.Login, "/auth/login",
		map[string]string{"username": "alice", "password": "s3cret-enough"})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.Username != "alice" {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}

	// The issued token verifies and carries the subject.
	claims, err := h.Tokens.Verify(out.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "alice" || claims.UserID != 1 {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_NoEnumerationSignal(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	digest, _ := h.Hasher.Hash("the-right-password")

	// Unknown username.
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)
	unknownRR := postJSON(t, h.Login, "/auth/login",
		map[string]string{"username": "nobody", "password": "whatever-pass"})

	// Known username, wrong password.
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(1, "alice", digest, time.Now()))
	wrongRR := postJSON(t, h.Login, "/auth/login",
		map[string]string{"username": "alice", "password": "the-wrong-password"})

	if unknownRR.Code != http.StatusUnauthorized || wrongRR.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: got %d and %d, want 401 and 401", unknownRR.Code, wrongRR.Code)
	}
	if unknownRR.Body.String() != wrongRR.Body.String() {
		t.Errorf("response bodies must be identical to avoid username enumeration: %q vs %q",
			unknownRR.Body.String(), wrongRR.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h, _, done := newAuthHandler(t)
	defer done()

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}
