package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mediguide-ai/backend/internal/domain"
	"github.com/mediguide-ai/backend/internal/otp"
	"github.com/mediguide-ai/backend/internal/repository"
	"github.com/mediguide-ai/backend/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeUserRepo struct {
	upsertVerified func(ctx context.Context, input repository.UpsertVerifiedInput) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) UpsertVerified(ctx context.Context, input repository.UpsertVerifiedInput) (*domain.User, error) {
	return r.upsertVerified(ctx, input)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

var testUser = &domain.User{ID: "user-1", Name: "Test", Email: "a@x.com", Phone: "123", IsVerified: true}

var codeRe = regexp.MustCompile(`code is: (\d{6})`)

func upsertOK(_ context.Context, input repository.UpsertVerifiedInput) (*domain.User, error) {
	u := *testUser
	u.Name = input.Name
	u.Email = input.Email
	u.Phone = input.Phone
	return &u, nil
}

// issueAndCapture sends an OTP and returns the 6-digit code that was emailed.
func issueAndCapture(t *testing.T, u *usecase.AuthUsecase, sent *string) string {
	t.Helper()
	if err := u.SendOTP(context.Background(), testUser.Email); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	m := codeRe.FindStringSubmatch(*sent)
	if m == nil {
		t.Fatalf("email body does not contain a 6-digit code: %q", *sent)
	}
	return m[1]
}

func newAuth(repo *fakeUserRepo, sender *fakeEmailSender, store otp.Store) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(repo, store, sender, []byte(testJWTKey))
}

// ---- SendOTP ----

func TestSendOTP_RejectsInvalidEmail(t *testing.T) {
	u := newAuth(&fakeUserRepo{}, &fakeEmailSender{}, otp.NewMemoryStore())

	for _, bad := range []string{"", "not-an-email", "a@", "@x.com"} {
		if err := u.SendOTP(context.Background(), bad); !errors.Is(err, domain.ErrInvalidEmail) {
			t.Errorf("SendOTP(%q) = %v, want ErrInvalidEmail", bad, err)
		}
	}
}

func TestSendOTP_EmailsTheStoredCode(t *testing.T) {
	var to, body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, sentTo, _, sentBody string) error {
			to, body = sentTo, sentBody
			return nil
		},
	}
	store := otp.NewMemoryStore()
	u := newAuth(&fakeUserRepo{}, sender, store)

	code := issueAndCapture(t, u, &body)

	if to != testUser.Email {
		t.Errorf("email sent to %q, want %q", to, testUser.Email)
	}
	rec, ok := store.Get(testUser.Email)
	if !ok {
		t.Fatal("no record stored")
	}
	if rec.Code != code {
		t.Errorf("stored code %q != emailed code %q", rec.Code, code)
	}
	if !rec.ExpiresAt.After(time.Now()) {
		t.Errorf("expiry %v is not in the future", rec.ExpiresAt)
	}
}

func TestSendOTP_DeliveryFailure_KeepsRecord(t *testing.T) {
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return errors.New("resend 503") },
	}
	store := otp.NewMemoryStore()
	u := newAuth(&fakeUserRepo{}, sender, store)

	err := u.SendOTP(context.Background(), testUser.Email)
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		t.Fatalf("want ErrDeliveryFailed, got %v", err)
	}

	// The record stays so a retry just overwrites it with a fresh code.
	if _, ok := store.Get(testUser.Email); !ok {
		t.Error("record was dropped after delivery failure")
	}
}

// ---- VerifyOTP ----

func TestVerifyOTP_NoRecord_ReturnsNotFound(t *testing.T) {
	u := newAuth(&fakeUserRepo{}, &fakeEmailSender{}, otp.NewMemoryStore())

	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: "nobody@x.com", Code: "123456",
	})
	if !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("want ErrOTPNotFound, got %v", err)
	}
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	// Issue 5m1s in the past so the code is just past its lifetime.
	past := time.Now().Add(-5*time.Minute - time.Second)
	store := otp.NewMemoryStoreWithClock(func() time.Time { return past })

	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(&fakeUserRepo{}, sender, store)
	code := issueAndCapture(t, u, &body)

	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: code, FullName: "Test", Phone: "123",
	})
	if !errors.Is(err, domain.ErrOTPExpired) {
		t.Errorf("want ErrOTPExpired, got %v", err)
	}
}

func TestVerifyOTP_WrongCode_ReturnsMismatch(t *testing.T) {
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(&fakeUserRepo{}, sender, otp.NewMemoryStore())
	code := issueAndCapture(t, u, &body)

	wrong := "123456"
	if wrong == code {
		wrong = "654321"
	}
	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: wrong, FullName: "Test", Phone: "123",
	})
	if !errors.Is(err, domain.ErrOTPMismatch) {
		t.Errorf("want ErrOTPMismatch, got %v", err)
	}
}

func TestVerifyOTP_ReissueInvalidatesFirstCode(t *testing.T) {
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	store := otp.NewMemoryStore()
	u := newAuth(&fakeUserRepo{}, sender, store)

	first := issueAndCapture(t, u, &body)
	second := first
	// A fresh draw can repeat; reissue until the codes differ.
	for second == first {
		second = issueAndCapture(t, u, &body)
	}

	// The stale code fails with Mismatch, not Expired: the live record
	// is the second one, and it has not expired.
	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: first, FullName: "Test", Phone: "123",
	})
	if !errors.Is(err, domain.ErrOTPMismatch) {
		t.Errorf("stale code: want ErrOTPMismatch, got %v", err)
	}
}

func TestVerifyOTP_Success_UpsertsVerifiedUserAndMintsJWT(t *testing.T) {
	var captured repository.UpsertVerifiedInput
	repo := &fakeUserRepo{
		upsertVerified: func(ctx context.Context, input repository.UpsertVerifiedInput) (*domain.User, error) {
			captured = input
			return upsertOK(ctx, input)
		},
	}
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(repo, sender, otp.NewMemoryStore())
	code := issueAndCapture(t, u, &body)

	user, token, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: code, FullName: "Test", Phone: "123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Email != testUser.Email || captured.Name != "Test" || captured.Phone != "123" {
		t.Errorf("unexpected upsert input: %+v", captured)
	}
	if captured.PasswordHash != nil {
		t.Error("no password supplied, but a hash was persisted")
	}
	if !user.IsVerified {
		t.Error("returned user is not verified")
	}

	parsed, parseErr := jwt.Parse(token, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method")
		}
		return []byte(testJWTKey), nil
	})
	if parseErr != nil || !parsed.Valid {
		t.Fatalf("returned JWT is invalid: %v", parseErr)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["email"] != testUser.Email {
		t.Errorf("jwt email = %v, want %q", claims["email"], testUser.Email)
	}
}

func TestVerifyOTP_CodeIsSingleUse(t *testing.T) {
	repo := &fakeUserRepo{upsertVerified: upsertOK}
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(repo, sender, otp.NewMemoryStore())
	code := issueAndCapture(t, u, &body)

	input := usecase.VerifyOTPInput{Email: testUser.Email, Code: code, FullName: "Test", Phone: "123"}
	if _, _, err := u.VerifyOTP(context.Background(), input); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	// Replaying the same pair must miss entirely: the record was consumed.
	_, _, err := u.VerifyOTP(context.Background(), input)
	if !errors.Is(err, domain.ErrOTPNotFound) {
		t.Errorf("replay: want ErrOTPNotFound, got %v", err)
	}
}

func TestVerifyOTP_HashesPasswordBeforePersisting(t *testing.T) {
	var captured repository.UpsertVerifiedInput
	repo := &fakeUserRepo{
		upsertVerified: func(ctx context.Context, input repository.UpsertVerifiedInput) (*domain.User, error) {
			captured = input
			return upsertOK(ctx, input)
		},
	}
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(repo, sender, otp.NewMemoryStore())
	code := issueAndCapture(t, u, &body)

	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: code, FullName: "Test", Phone: "123", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.PasswordHash == nil {
		t.Fatal("expected a password hash")
	}
	if *captured.PasswordHash == "hunter22" {
		t.Fatal("password was persisted in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(*captured.PasswordHash), []byte("hunter22")) != nil {
		t.Error("stored hash does not match the supplied password")
	}
}

func TestVerifyOTP_RepoError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeUserRepo{
		upsertVerified: func(_ context.Context, _ repository.UpsertVerifiedInput) (*domain.User, error) {
			return nil, repoErr
		},
	}
	var body string
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, b string) error { body = b; return nil },
	}
	u := newAuth(repo, sender, otp.NewMemoryStore())
	code := issueAndCapture(t, u, &body)

	_, _, err := u.VerifyOTP(context.Background(), usecase.VerifyOTPInput{
		Email: testUser.Email, Code: code, FullName: "Test", Phone: "123",
	})
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}
