package service

import (
	"errors"
	"testing"
	"time"

	"todo_api/internal/models"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int]*models.User
	revoked      map[string]bool
	resets       map[string]*models.PasswordReset

	nextID    int
	passwords map[string]string // email -> stored hash
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		usersByEmail: map[string]*models.User{},
		usersByID:    map[int]*models.User{},
		revoked:      map[string]bool{},
		resets:       map[string]*models.PasswordReset{},
		passwords:    map[string]string{},
		nextID:       1,
	}
}

func (m *mockAuthRepo) CreateUser(name, email, passwordHash string) (int, error) {
	id := m.nextID
	m.nextID++
	u := &models.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.usersByEmail[email] = u
	m.usersByID[id] = u
	m.passwords[email] = passwordHash
	return id, nil
}

func (m *mockAuthRepo) GetUserByEmail(email string) (*models.User, error) {
	return m.usersByEmail[email], nil
}

func (m *mockAuthRepo) GetUserByID(id int) (*models.User, error) {
	return m.usersByID[id], nil
}

func (m *mockAuthRepo) UpdatePassword(email, passwordHash string) error {
	u, ok := m.usersByEmail[email]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = passwordHash
	m.passwords[email] = passwordHash
	return nil
}

func (m *mockAuthRepo) RevokeToken(jti string, revokedAt time.Time) error {
	m.revoked[jti] = true
	return nil
}

func (m *mockAuthRepo) IsTokenRevoked(jti string) (bool, error) {
	return m.revoked[jti], nil
}

func (m *mockAuthRepo) SavePasswordReset(reset models.PasswordReset) error {
	m.resets[reset.Email] = &reset
	return nil
}

func (m *mockAuthRepo) GetPasswordReset(email string) (*models.PasswordReset, error) {
	return m.resets[email], nil
}

func (m *mockAuthRepo) DeletePasswordReset(email string) error {
	delete(m.resets, email)
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, AuthConfig{SigningKey: "unit-test-key", TokenTTL: time.Minute})
}

func TestAuthService_RegisterAndParseToken(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	user, token, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" || user.ID == 0 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if repo.passwords["alice@example.com"] == "s3cr3tpass" {
		t.Fatal("password stored in plain text")
	}
	if err := verifyPassword(repo.passwords["alice@example.com"], "s3cr3tpass"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	userID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("token user: got %d, want %d", userID, user.ID)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := svc.Register("Other", "alice@example.com", "otherpass1")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)
	if _, _, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login("alice@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || user.Email != "alice@example.com" {
		t.Fatalf("unexpected login result: %+v / %q", user, token)
	}

	// Wrong password and unknown email collapse into one error.
	if _, _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("ghost@example.com", "s3cr3tpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LogoutRevokesOnlyPresentedToken(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)
	if _, _, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, first, err := svc.Login("alice@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	_, second, err := svc.Login("alice@example.com", "s3cr3tpass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(first); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ParseToken(first); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token: expected ErrInvalidToken, got %v", err)
	}
	if _, err := svc.ParseToken(second); err != nil {
		t.Fatalf("other session must stay valid: %v", err)
	}
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())
	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("expected error for garbage token")
	}

	// A token signed with a different key must be rejected.
	other := NewAuthService(newMockAuthRepo(), AuthConfig{SigningKey: "other-key", TokenTTL: time.Minute})
	token, err := other.issueToken(1)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Fatal("expected error for token signed with another key")
	}
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)
	if _, _, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.ForgotPassword("ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	token, err := svc.ForgotPassword("alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token")
	}

	if err := svc.ResetPassword("alice@example.com", "wrong-token", "newpass123"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("wrong token: expected ErrInvalidResetToken, got %v", err)
	}

	if err := svc.ResetPassword("alice@example.com", token, "newpass123"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "newpass123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "s3cr3tpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}

	// Tokens are single-use.
	if err := svc.ResetPassword("alice@example.com", token, "anotherpass1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("reused token: expected ErrInvalidResetToken, got %v", err)
	}
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)
	if _, _, err := svc.Register("Alice", "alice@example.com", "s3cr3tpass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	repo.resets["alice@example.com"] = &models.PasswordReset{
		Email:     "alice@example.com",
		Token:     "stale",
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := svc.ResetPassword("alice@example.com", "stale", "newpass123"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken for expired token, got %v", err)
	}
	if repo.resets["alice@example.com"] != nil {
		t.Fatal("expired token should be dropped")
	}
}
