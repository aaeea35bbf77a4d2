package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/email"
	"github.com/mediguide-ai/backend/internal/otp"
	"github.com/mediguide-ai/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultOTPTTL = 5 * time.Minute
	defaultJWTTTL = 24 * time.Hour
)

type AuthUsecase struct {
	users    repository.UserRepository
	codes    otp.Store
	email    email.Sender
	jwtKey   []byte
	otpTTL   time.Duration
	jwtTTL   time.Duration
	now      func() time.Time
	validate *validator.Validate
}

func NewAuthUsecase(users repository.UserRepository, codes otp.Store, emailSender email.Sender, jwtKey []byte) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		codes:    codes,
		email:    emailSender,
		jwtKey:   jwtKey,
		otpTTL:   defaultOTPTTL,
		jwtTTL:   defaultJWTTTL,
		now:      time.Now,
		validate: validator.New(),
	}
}

// SetOTPTTL overrides the default 5-minute code lifetime.
func (u *AuthUsecase) SetOTPTTL(ttl time.Duration) {
	u.otpTTL = ttl
}

// SendOTP generates a 6-digit code, stores it under the email
// (overwriting any earlier pending code, so only one code is ever
// live), and emails it. The stored record survives a delivery failure;
// the caller can retry and get a fresh code.
func (u *AuthUsecase) SendOTP(ctx context.Context, emailAddr string) error {
	if err := u.validate.Var(emailAddr, "required,email"); err != nil {
		return domain.ErrInvalidEmail
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	u.codes.Put(emailAddr, code, u.otpTTL)

	subject := "Your MediGuide verification code"
	body := fmt.Sprintf("Your 6-digit code is: %s\nValid for %d minutes.", code, int(u.otpTTL.Minutes()))
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

type VerifyOTPInput struct {
	Email    string
	Code     string
	FullName string
	Phone    string
	Password string // optional; hashed before it is persisted
}

// VerifyOTP checks the supplied code against the pending record for the
// email. Misses are reported in order: no record, expired, mismatch. On
// success the code is consumed (single use), the user is upserted with
// verified=true, and a session JWT is minted.
func (u *AuthUsecase) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*domain.User, string, error) {
	rec, ok := u.codes.Get(input.Email)
	if !ok {
		return nil, "", domain.ErrOTPNotFound
	}
	if u.now().After(rec.ExpiresAt) {
		return nil, "", domain.ErrOTPExpired
	}
	if strings.TrimSpace(input.Code) != rec.Code {
		return nil, "", domain.ErrOTPMismatch
	}

	u.codes.Delete(input.Email)

	var passwordHash *string
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("hash password: %w", err)
		}
		h := string(hashed)
		passwordHash = &h
	}

	user, err := u.users.UpsertVerified(ctx, repository.UpsertVerifiedInput{
		Name:         input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return nil, "", fmt.Errorf("upsert user: %w", err)
	}

	token, err := u.signJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("sign jwt: %w", err)
	}
	return user, token, nil
}

func (u *AuthUsecase) signJWT(user *domain.User) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(u.jwtTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(u.jwtKey)
}

// generateCode draws uniformly from [100000, 999999], so the code is
// always exactly six digits with no leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
