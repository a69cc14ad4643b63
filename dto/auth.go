package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/certainlyMohneeesh/AuthSys/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "username is required"
	}
	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	}

	return errs
}

type RegisterResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewRegisterResponse(user models.User) RegisterResponse {
	return RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	return errs
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
}

func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
	}
}

type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         UserSummary `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}

	return errs
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}
	if !isSixDigits(r.OTP) {
		errs["otp"] = "otp must be exactly 6 digits"
	}

	return errs
}

type VerifyOTPResponse struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Token) == "" {
		errs["token"] = "token is required"
	}
	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	return errs
}

type NotificationRequest struct {
	Email string `json:"email"`
}

func (r *NotificationRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if !isValidEmail(r.Email) {
		errs["email"] = "a valid email is required"
	}

	return errs
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
