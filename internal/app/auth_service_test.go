package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"accounts/internal/domain"
)

type mockUserRepo struct {
	createFn               func(ctx context.Context, u *domain.User) error
	getByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFn        func(ctx context.Context, username string) (*domain.User, error)
	getByUsernameOrEmailFn func(ctx context.Context, username, email string) (*domain.User, error)
	listFn                 func(ctx context.Context) ([]domain.User, error)
	updateFn               func(ctx context.Context, u *domain.User) error
	deleteFn               func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	if m.getByUsernameOrEmailFn != nil {
		return m.getByUsernameOrEmailFn(ctx, username, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func newTestAuthService(users domain.UserRepository) *AuthService {
	hasher := NewPasswordHasher(4)
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	return NewAuthService(users, hasher, tokens)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "analytical-engine",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()

	var created *domain.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u *domain.User) error {
			created = u
			return nil
		},
	}

	svc := newTestAuthService(users)
	user, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if user.Role != domain.RoleViewer {
		t.Errorf("role = %q, want VIEWER", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "analytical-engine" {
		t.Error("password must be stored as a hash")
	}
	if !svc.hasher.Verify("analytical-engine", user.PasswordHash) {
		t.Error("stored hash should verify against the plaintext")
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&mockUserRepo{})

	cases := map[string]func(in *RegisterInput){
		"firstName": func(in *RegisterInput) { in.FirstName = "" },
		"lastName":  func(in *RegisterInput) { in.LastName = "" },
		"username":  func(in *RegisterInput) { in.Username = "" },
		"email":     func(in *RegisterInput) { in.Email = "" },
		"password":  func(in *RegisterInput) { in.Password = "" },
	}

	for name, clear := range cases {
		in := validRegisterInput()
		clear(&in)
		if _, err := svc.Register(ctx, in); !errors.Is(err, ErrValidation) {
			t.Errorf("missing %s: err = %v, want ErrValidation", name, err)
		}
	}
}

func TestAuthService_Register_Conflict(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		getByUsernameOrEmailFn: func(ctx context.Context, username, email string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: username}, nil
		},
	}

	svc := newTestAuthService(users)
	if _, err := svc.Register(ctx, validRegisterInput()); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestAuthService_Register_StoreUniquenessRace(t *testing.T) {
	ctx := context.Background()

	// Pre-check sees nothing but the insert loses the race; the store's
	// constraint violation must still surface as a conflict.
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u *domain.User) error {
			return domain.ErrDuplicate
		},
	}

	svc := newTestAuthService(users)
	if _, err := svc.Register(ctx, validRegisterInput()); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	hasher := NewPasswordHasher(4)
	hash, _ := hasher.Hash("testpass123")

	userID := uuid.New()
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           userID,
				Username:     "testuser",
				PasswordHash: hash,
				Role:         domain.RoleViewer,
			}, nil
		},
	}

	svc := newTestAuthService(users)
	user, token, err := svc.Login(ctx, "testuser", "testpass123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if user.ID != userID {
		t.Errorf("user id = %s, want %s", user.ID, userID)
	}

	claims, err := svc.tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.Username != "testuser" || claims.Role != domain.RoleViewer {
		t.Errorf("claims = %q/%q, want testuser/VIEWER", claims.Username, claims.Role)
	}
}

func TestAuthService_Login_SymmetricFailures(t *testing.T) {
	ctx := context.Background()
	hasher := NewPasswordHasher(4)
	hash, _ := hasher.Hash("rightpassword")

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if username == "known" {
				return &domain.User{ID: uuid.New(), Username: "known", PasswordHash: hash}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestAuthService(users)

	_, _, wrongPass := svc.Login(ctx, "known", "wrongpassword")
	_, _, noUser := svc.Login(ctx, "nobody", "whatever")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Error("failure messages must not distinguish unknown users from wrong passwords")
	}
}

func TestAuthService_Login_NoPasswordHash(t *testing.T) {
	ctx := context.Background()

	// SSO-provisioned accounts have no local password and cannot log in with one.
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: username}, nil
		},
	}

	svc := newTestAuthService(users)
	if _, _, err := svc.Login(ctx, "ssouser", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_MissingInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(&mockUserRepo{})

	if _, _, err := svc.Login(ctx, "", "pw"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty username: err = %v, want ErrValidation", err)
	}
	if _, _, err := svc.Login(ctx, "user", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty password: err = %v, want ErrValidation", err)
	}
}

func TestAuthService_Provision(t *testing.T) {
	ctx := context.Background()

	var created *domain.User
	users := &mockUserRepo{
		createFn: func(ctx context.Context, u *domain.User) error {
			created = u
			return nil
		},
	}

	svc := newTestAuthService(users)
	user, err := svc.Provision(ctx, "sso@example.com", "sso@example.com")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if created == nil {
		t.Fatal("expected a new user to be created")
	}
	if user.Role != domain.RoleViewer {
		t.Errorf("role = %q, want VIEWER", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("SSO accounts must not get a password hash")
	}
}
