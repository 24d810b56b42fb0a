package auth

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/carebridge/hospital-api/internal/domain"
	"github.com/google/uuid"
)

type fakeUserStore struct {
	users     map[string]*domain.User
	updateErr error
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	copied := *user
	s.users[user.Username] = &copied
	return nil
}

type fakeCredStore struct {
	creds map[uuid.UUID]*domain.UserCredential
}

func newFakeCredStore(creds ...*domain.UserCredential) *fakeCredStore {
	s := &fakeCredStore{creds: make(map[uuid.UUID]*domain.UserCredential)}
	for _, c := range creds {
		s.creds[c.UserID] = c
	}
	return s
}

func (s *fakeCredStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.UserCredential, error) {
	c, ok := s.creds[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCredStore) Update(_ context.Context, cred *domain.UserCredential) error {
	copied := *cred
	s.creds[cred.UserID] = &copied
	return nil
}

// fakeOtpStore mirrors the repository contract: FindNewestValid matches
// unused tokens with expires_at strictly after now, newest first.
// queryLag shifts the query clock backwards to simulate a row that aged
// between the query and the service's expiry re-check.
type fakeOtpStore struct {
	tokens   []*domain.OtpToken
	queryLag time.Duration
}

func (s *fakeOtpStore) Create(_ context.Context, token *domain.OtpToken) error {
	copied := *token
	s.tokens = append(s.tokens, &copied)
	return nil
}

func (s *fakeOtpStore) Update(_ context.Context, token *domain.OtpToken) error {
	for i, t := range s.tokens {
		if t.ID == token.ID {
			copied := *token
			s.tokens[i] = &copied
			return nil
		}
	}
	return errors.New("token not found")
}

func (s *fakeOtpStore) InvalidateUnused(_ context.Context, userID uuid.UUID) error {
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Used {
			t.Used = true
		}
	}
	return nil
}

func (s *fakeOtpStore) FindNewestValid(_ context.Context, userID uuid.UUID, now time.Time) (*domain.OtpToken, error) {
	queryNow := now.Add(-s.queryLag)
	var matches []*domain.OtpToken
	for _, t := range s.tokens {
		if t.UserID == userID && !t.Used && t.ExpiresAt.After(queryNow) {
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

type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.UserSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.UserSession)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *domain.UserSession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetActiveByTokenHash(_ context.Context, tokenHash string) (*domain.UserSession, error) {
	for _, sess := range s.sessions {
		if sess.TokenHash == tokenHash && sess.IsActive {
			copied := *sess
			return &copied, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (s *fakeSessionStore) Deactivate(_ context.Context, id uuid.UUID) error {
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.IsActive = false
	return nil
}

type sentOtp struct {
	to   string
	code string
}

type fakeNotifier struct {
	sent []sentOtp
	err  error
}

func (n *fakeNotifier) SendOtp(to, code string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentOtp{to: to, code: code})
	return nil
}

func (n *fakeNotifier) lastCode() string {
	if len(n.sent) == 0 {
		return ""
	}
	return n.sent[len(n.sent)-1].code
}
