package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/certainlyMohneeesh/AuthSys/models"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[uint]*models.User{}}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.nextID
	s.nextID++
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) UpdatePasswordHash(_ context.Context, userID uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = &hash
	return nil
}

type fakeResetStore struct {
	mu      sync.Mutex
	records map[uint]*models.PasswordReset
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{records: map[uint]*models.PasswordReset{}}
}

func (s *fakeResetStore) Upsert(_ context.Context, record *models.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[record.UserID] = &copied
	return nil
}

func (s *fakeResetStore) FindByUserID(_ context.Context, userID uint) (*models.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeResetStore) MarkVerified(_ context.Context, userID uint, oldToken, verifiedToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[userID]
	if !ok || r.State != models.ResetStatePending || r.ResetToken != oldToken {
		return repository.ErrNotFound
	}
	r.State = models.ResetStateVerified
	r.ResetToken = verifiedToken
	r.OtpHash = ""
	return nil
}

func (s *fakeResetStore) DeleteByUserID(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

// plainHasher is a deterministic hasher so tests stay fast; the real
// bcrypt round-trip is covered in the utils package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "digest:" + plain, nil
}

func (plainHasher) Check(hashed, plain string) bool {
	return strings.TrimPrefix(hashed, "digest:") == plain && strings.HasPrefix(hashed, "digest:")
}

// queuedTokenSource hands out scripted OTPs and tokens in order.
type queuedTokenSource struct {
	mu     sync.Mutex
	otps   []string
	tokens []string
	serial int
}

func (s *queuedTokenSource) OTP() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.otps) > 0 {
		otp := s.otps[0]
		s.otps = s.otps[1:]
		return otp, nil
	}
	return "000000", nil
}

func (s *queuedTokenSource) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) > 0 {
		token := s.tokens[0]
		s.tokens = s.tokens[1:]
		return token, nil
	}
	s.serial++
	return fmt.Sprintf("token-%04d", s.serial), nil
}

type fakeResetMailer struct {
	mu   sync.Mutex
	sent []struct{ To, OTP string }
	err  error
}

func (m *fakeResetMailer) SendResetCodeEmail(toEmail, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, struct{ To, OTP string }{toEmail, otp})
	return nil
}

type fakeBus struct {
	mu        sync.Mutex
	published []events.AuthEvent
}

func (b *fakeBus) Publish(event events.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *fakeBus) byType(t events.AuthEventType) []events.AuthEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.AuthEvent
	for _, e := range b.published {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// testClock makes expiry deterministic.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
