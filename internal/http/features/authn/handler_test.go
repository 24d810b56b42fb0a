package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

// In-memory stores backing a full login flow through the HTTP handler.

type memUserStore struct {
	users map[string]*domain.User
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) Update(_ context.Context, user *domain.User) error {
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

type memCredStore struct {
	creds map[uuid.UUID]*domain.UserCredential
}

func (s *memCredStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.UserCredential, error) {
	c, ok := s.creds[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *memCredStore) Update(_ context.Context, cred *domain.UserCredential) error {
	copied := *cred
	s.creds[cred.UserID] = &copied
	return nil
}

type memOtpStore struct {
	tokens []*domain.OtpToken
}

func (s *memOtpStore) Create(_ context.Context, token *domain.OtpToken) error {
	copied := *token
	s.tokens = append(s.tokens, &copied)
	return nil
}

func (s *memOtpStore) Update(_ context.Context, token *domain.OtpToken) error {
	for i, t := range s.tokens {
		if t.ID == token.ID {
			copied := *token
			s.tokens[i] = &copied
			return nil
		}
	}
	return domain.ErrInvalidOtp
}

func (s *memOtpStore) InvalidateUnused(_ context.Context, userID uuid.UUID) error {
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Used {
			t.Used = true
		}
	}
	return nil
}

func (s *memOtpStore) FindNewestValid(_ context.Context, userID uuid.UUID, now time.Time) (*domain.OtpToken, error) {
	var matches []*domain.OtpToken
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Used && t.ExpiresAt.After(now) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil, domain.ErrInvalidOtp
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	copied := *matches[0]
	return &copied, nil
}

type memSessionStore struct {
	sessions map[uuid.UUID]*domain.UserSession
}

func (s *memSessionStore) Create(_ context.Context, session *domain.UserSession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *memSessionStore) GetActiveByTokenHash(_ context.Context, tokenHash string) (*domain.UserSession, error) {
	for _, sess := range s.sessions {
		if sess.TokenHash == tokenHash && sess.IsActive {
			copied := *sess
			return &copied, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *memSessionStore) Deactivate(_ context.Context, id uuid.UUID) error {
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.IsActive = false
	return nil
}

type captureNotifier struct {
	codes []string
}

func (n *captureNotifier) SendOtp(_, code string) error {
	n.codes = append(n.codes, code)
	return nil
}

func (n *captureNotifier) lastCode() string {
	if len(n.codes) == 0 {
		return ""
	}
	return n.codes[len(n.codes)-1]
}

func newTestHandler(t *testing.T, username, password string) (*Handler, *captureNotifier) {
	t.Helper()

	user := &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.org",
		Name:     "Test User",
		Role:     domain.RoleNurse,
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := &memUserStore{users: map[string]*domain.User{username: user}}
	creds := &memCredStore{creds: map[uuid.UUID]*domain.UserCredential{
		user.ID: {UserID: user.ID, PasswordHash: hash},
	}}
	tokens := &memOtpStore{}
	sessions := &memSessionStore{sessions: make(map[uuid.UUID]*domain.UserSession)}
	notifier := &captureNotifier{}

	issuer := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "hospital-api-test",
	})
	otpSvc := auth.NewOtpService(logger, users, tokens, sessions, issuer, notifier, 0)
	authSvc := auth.NewAuthenticationService(logger, users, creds, sessions, otpSvc)

	return NewHandler(logger, authSvc, otpSvc), notifier
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(buf))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestLoginFlow(t *testing.T) {
	h, notifier := newTestHandler(t, "nurse.jones", "ward seven")

	// Step 1: password accepted, code sent, no token yet.
	w := postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "ward seven"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login status = %d, body %s", w.Code, w.Body)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("access_token")) {
		t.Error("login must not issue a token before verification")
	}
	if notifier.lastCode() == "" {
		t.Fatal("no code was sent")
	}

	// Step 2: code verifies and tokens are issued.
	w = postJSON(t, h.VerifyOtp, VerifyOtpRequest{Username: "nurse.jones", Code: notifier.lastCode()})
	if w.Code != http.StatusOK {
		t.Fatalf("VerifyOtp status = %d, body %s", w.Code, w.Body)
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		SessionToken string `json:"session_token"`
		TokenType    string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AccessToken == "" || resp.SessionToken == "" {
		t.Fatalf("tokens missing in %s", w.Body)
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", resp.TokenType)
	}

	// Step 3: logout deactivates the session; a second logout fails.
	req := httptest.NewRequest("POST", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+resp.SessionToken)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Logout status = %d, body %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.Logout(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second Logout status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLogin_Rejections(t *testing.T) {
	h, _ := newTestHandler(t, "nurse.jones", "ward seven")

	tests := []struct {
		name       string
		body       LoginRequest
		wantStatus int
	}{
		{name: "wrong password", body: LoginRequest{Username: "nurse.jones", Password: "wrong"}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", body: LoginRequest{Username: "ghost", Password: "whatever"}, wantStatus: http.StatusUnauthorized},
		{name: "missing fields", body: LoginRequest{Username: "nurse.jones"}, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h.Login, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestLogin_LockoutReturns423(t *testing.T) {
	h, notifier := newTestHandler(t, "nurse.jones", "ward seven")

	for i := 0; i < domain.MaxFailedLoginAttempts; i++ {
		w := postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "wrong"})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want %d", i+1, w.Code, http.StatusUnauthorized)
		}
	}

	w := postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "ward seven"})
	if w.Code != http.StatusLocked {
		t.Errorf("locked account: status = %d, want %d", w.Code, http.StatusLocked)
	}
	if len(notifier.codes) != 0 {
		t.Errorf("codes sent = %d, want 0 for a locked account", len(notifier.codes))
	}
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	h, notifier := newTestHandler(t, "nurse.jones", "ward seven")

	w := postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "ward seven"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login status = %d", w.Code)
	}

	wrong := "000000"
	if wrong == notifier.lastCode() {
		wrong = "000001"
	}
	w = postJSON(t, h.VerifyOtp, VerifyOtpRequest{Username: "nurse.jones", Code: wrong})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestForgotPassword_DoesNotRevealAccounts(t *testing.T) {
	h, _ := newTestHandler(t, "nurse.jones", "ward seven")

	known := postJSON(t, h.ForgotPassword, ForgotPasswordRequest{Username: "nurse.jones"})
	unknown := postJSON(t, h.ForgotPassword, ForgotPasswordRequest{Username: "ghost"})

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("status: known = %d, unknown = %d, want both 200", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ: %s vs %s", known.Body, unknown.Body)
	}
}

func TestResetPassword(t *testing.T) {
	h, notifier := newTestHandler(t, "nurse.jones", "old password")

	w := postJSON(t, h.ForgotPassword, ForgotPasswordRequest{Username: "nurse.jones"})
	if w.Code != http.StatusOK {
		t.Fatalf("ForgotPassword status = %d", w.Code)
	}

	w = postJSON(t, h.ResetPassword, ResetPasswordRequest{
		Username:    "nurse.jones",
		Code:        notifier.lastCode(),
		NewPassword: "new password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("ResetPassword status = %d, body %s", w.Code, w.Body)
	}

	// Old password no longer works, new one does.
	w = postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "old password"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("old password: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	w = postJSON(t, h.Login, LoginRequest{Username: "nurse.jones", Password: "new password"})
	if w.Code != http.StatusOK {
		t.Errorf("new password: status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body)
	}
}
