package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/certainlyMohneeesh/AuthSys/models"
	"github.com/certainlyMohneeesh/AuthSys/repository"
	"github.com/certainlyMohneeesh/AuthSys/services"
	"github.com/certainlyMohneeesh/AuthSys/utils"
	"github.com/certainlyMohneeesh/AuthSys/utils/events"

	"github.com/gofiber/fiber/v2"
)

type memUserStore struct {
	byEmail map[string]*models.User
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	user.ID = uint(len(s.byEmail) + 1)
	copied := *user
	s.byEmail[user.Email] = &copied
	return nil
}

func (s *memUserStore) UpdatePasswordHash(_ context.Context, userID uint, hash string) error {
	for _, u := range s.byEmail {
		if u.ID == userID {
			u.PasswordHash = &hash
			return nil
		}
	}
	return repository.ErrNotFound
}

type memResetStore struct {
	records map[uint]*models.PasswordReset
}

func (s *memResetStore) Upsert(_ context.Context, record *models.PasswordReset) error {
	copied := *record
	s.records[record.UserID] = &copied
	return nil
}

func (s *memResetStore) FindByUserID(_ context.Context, userID uint) (*models.PasswordReset, error) {
	if r, ok := s.records[userID]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memResetStore) MarkVerified(_ context.Context, userID uint, oldToken, verifiedToken string) error {
	r, ok := s.records[userID]
	if !ok || r.State != models.ResetStatePending || r.ResetToken != oldToken {
		return repository.ErrNotFound
	}
	r.State = models.ResetStateVerified
	r.ResetToken = verifiedToken
	r.OtpHash = ""
	return nil
}

func (s *memResetStore) DeleteByUserID(_ context.Context, userID uint) error {
	if _, ok := s.records[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

type testHasher struct{}

func (testHasher) Hash(plain string) (string, error) { return "digest:" + plain, nil }
func (testHasher) Check(hashed, plain string) bool   { return hashed == "digest:"+plain }

type memMailer struct {
	sent []string
	err  error
}

func (m *memMailer) SendResetCodeEmail(toEmail, otp string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail+":"+otp)
	return nil
}

type fixedTokens struct{ otp string }

func (f fixedTokens) OTP() (string, error) {
	if f.otp != "" {
		return f.otp, nil
	}
	return "482913", nil
}

func (fixedTokens) Token() (string, error) {
	return utils.GenerateToken()
}

type noopBus struct{}

func (noopBus) Publish(events.AuthEvent) {}

type resetApp struct {
	app    *fiber.App
	mailer *memMailer
	users  *memUserStore
}

func newResetApp(t *testing.T) *resetApp {
	t.Helper()

	users := &memUserStore{byEmail: map[string]*models.User{}}
	resets := &memResetStore{records: map[uint]*models.PasswordReset{}}
	mailer := &memMailer{}

	hash := "digest:OldPass1"
	alice := &models.User{Username: "alice", Email: "a@b.com", PasswordHash: &hash}
	alice.ID = 1
	users.byEmail[alice.Email] = alice

	resetService := services.NewResetService(users, resets, testHasher{}, fixedTokens{}, mailer, noopBus{})
	h := NewPasswordResetHandler(resetService)

	app := fiber.New()
	app.Post("/auth/forgot-password", h.ForgotPassword)
	app.Post("/auth/verify-otp", h.VerifyOTP)
	app.Post("/auth/reset-password", h.ResetPassword)

	return &resetApp{app: app, mailer: mailer, users: users}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, string) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(raw)
}

func TestForgotPasswordResponseIsUniform(t *testing.T) {
	f := newResetApp(t)

	knownResp, knownBody := postJSON(t, f.app, "/auth/forgot-password", fiber.Map{"email": "a@b.com"})
	unknownResp, unknownBody := postJSON(t, f.app, "/auth/forgot-password", fiber.Map{"email": "nobody@b.com"})

	if knownResp.StatusCode != http.StatusOK || unknownResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", knownResp.StatusCode, unknownResp.StatusCode)
	}
	if knownBody != unknownBody {
		t.Fatalf("responses must be indistinguishable:\nknown:   %s\nunknown: %s", knownBody, unknownBody)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected exactly one email, to the real account, got %v", f.mailer.sent)
	}
}

func TestForgotPasswordRejectsBadEmail(t *testing.T) {
	f := newResetApp(t)

	resp, _ := postJSON(t, f.app, "/auth/forgot-password", fiber.Map{"email": "not-an-email"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestForgotPasswordEmailFailureIs500(t *testing.T) {
	f := newResetApp(t)
	f.mailer.err = io.ErrUnexpectedEOF

	resp, _ := postJSON(t, f.app, "/auth/forgot-password", fiber.Map{"email": "a@b.com"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the code email cannot be sent, got %d", resp.StatusCode)
	}
}

func TestResetFlowOverHTTP(t *testing.T) {
	f := newResetApp(t)

	resp, _ := postJSON(t, f.app, "/auth/forgot-password", fiber.Map{"email": "a@b.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot-password: %d", resp.StatusCode)
	}

	resp, body := postJSON(t, f.app, "/auth/verify-otp", fiber.Map{"email": "a@b.com", "otp": "482913"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify-otp: %d (%s)", resp.StatusCode, body)
	}

	var verifyResp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &verifyResp); err != nil || verifyResp.Data.Token == "" {
		t.Fatalf("expected verified token in response, got %s", body)
	}

	resp, body = postJSON(t, f.app, "/auth/reset-password", fiber.Map{
		"email": "a@b.com", "token": verifyResp.Data.Token, "password": "NewPass1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset-password: %d (%s)", resp.StatusCode, body)
	}

	if stored := f.users.byEmail["a@b.com"].PasswordHash; stored == nil || !strings.HasSuffix(*stored, "NewPass1") {
		t.Fatalf("password hash not updated: %v", stored)
	}

	// The verified token is spent with the record.
	resp, _ = postJSON(t, f.app, "/auth/reset-password", fiber.Map{
		"email": "a@b.com", "token": verifyResp.Data.Token, "password": "OtherPass1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on token replay, got %d", resp.StatusCode)
	}
}

func TestVerifyOTPBadInputs(t *testing.T) {
	f := newResetApp(t)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"otp too short", fiber.Map{"email": "a@b.com", "otp": "123"}, http.StatusBadRequest},
		{"otp not numeric", fiber.Map{"email": "a@b.com", "otp": "12a456"}, http.StatusBadRequest},
		{"no pending reset", fiber.Map{"email": "a@b.com", "otp": "482913"}, http.StatusBadRequest},
		{"unknown user", fiber.Map{"email": "nobody@b.com", "otp": "482913"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postJSON(t, f.app, "/auth/verify-otp", tt.body)
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestResetPasswordUnknownUserIs404(t *testing.T) {
	f := newResetApp(t)

	resp, _ := postJSON(t, f.app, "/auth/reset-password", fiber.Map{
		"email": "nobody@b.com", "token": "whatever", "password": "NewPass1",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
