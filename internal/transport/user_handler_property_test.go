package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockroom/internal/domain"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func newUserHandlerForTest() *UserHandler {
	userService := service.NewUserService(newMockUserRepository(), newMockRefreshTokenRepository(), "test-secret")
	return NewUserHandler(userService, zap.NewNop())
}

// Feature: inventory-platform, Property 3: Invalid registration data is rejected
func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			handler := newUserHandlerForTest()

			var reqBody RegisterRequest

			switch invalidCase % 4 {
			case 0:
				// Empty email
				reqBody = RegisterRequest{
					Name:     "Asha",
					Email:    "",
					Password: "ValidPass123",
				}
			case 1:
				// Invalid email format
				reqBody = RegisterRequest{
					Name:     "Asha",
					Email:    "not-an-email",
					Password: "ValidPass123",
				}
			case 2:
				// Short password (less than 8 characters)
				reqBody = RegisterRequest{
					Name:     "Asha",
					Email:    "test@example.com",
					Password: "short",
				}
			case 3:
				// Missing name
				reqBody = RegisterRequest{
					Email:    "test@example.com",
					Password: "ValidPass123",
				}
			}

			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}

			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: inventory-platform, Property 2: Successful registration returns profile data
func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("successful registration returns the account profile", prop.ForAll(
		func(name string, email string, password string) bool {
			handler := newUserHandlerForTest()

			body, _ := json.Marshal(RegisterRequest{Name: name, Email: email, Password: password})
			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201, got %d: %s", w.Code, w.Body.String())
				return false
			}

			var profile UserProfile
			if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
				t.Logf("FAIL: Could not decode profile: %v", err)
				return false
			}

			if profile.Name != name || profile.Email != email {
				t.Logf("FAIL: Profile fields not carried: %+v", profile)
				return false
			}
			if _, err := uuid.Parse(profile.ID); err != nil {
				t.Logf("FAIL: Profile id is not a uuid: %q", profile.ID)
				return false
			}
			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserHandler_RegisterDuplicate(t *testing.T) {
	handler := newUserHandlerForTest()

	register := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"})
		req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.Register(w, req)
		return w
	}

	if w := register(); w.Code != http.StatusCreated {
		t.Fatalf("first registration failed: %d", w.Code)
	}
	if w := register(); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}
}

func TestUserHandler_LoginFlow(t *testing.T) {
	handler := newUserHandlerForTest()

	body, _ := json.Marshal(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("registration failed: %d", w.Code)
	}

	loginBody, _ := json.Marshal(LoginRequest{Email: "asha@example.com", Password: "password123"})
	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(loginBody)))
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d: %s", w.Code, w.Body.String())
	}

	var login LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&login); err != nil {
		t.Fatalf("could not decode login response: %v", err)
	}
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Errorf("tokens missing from login response")
	}

	// Refresh with the issued token
	refreshBody, _ := json.Marshal(RefreshRequest{RefreshToken: login.RefreshToken})
	w = httptest.NewRecorder()
	handler.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/api/users/refresh", bytes.NewReader(refreshBody)))
	if w.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d: %s", w.Code, w.Body.String())
	}

	// Logout revokes the refresh token
	w = httptest.NewRecorder()
	handler.Logout(w, httptest.NewRequest(http.MethodPost, "/api/users/logout", bytes.NewReader(refreshBody)))
	if w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/api/users/refresh", bytes.NewReader(refreshBody)))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestUserHandler_LoginWrongPassword(t *testing.T) {
	handler := newUserHandlerForTest()

	body, _ := json.Marshal(RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	w := httptest.NewRecorder()
	handler.Register(w, httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body)))

	loginBody, _ := json.Marshal(LoginRequest{Email: "asha@example.com", Password: "wrong-password"})
	w = httptest.NewRecorder()
	handler.Login(w, httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(loginBody)))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}
}
