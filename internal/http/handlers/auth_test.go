package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/dumbcrm/internal/auth"
	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/user"
	"github.com/geocoder89/dumbcrm/internal/http/handlers"
	"github.com/geocoder89/dumbcrm/internal/http/middlewares"
	"github.com/geocoder89/dumbcrm/internal/repo/postgres"
	"github.com/geocoder89/dumbcrm/internal/security"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthStore struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	createFn     func(ctx context.Context, email, passwordHash, name, role string, isActive bool) (user.User, error)
	updateFn     func(ctx context.Context, id string, params postgres.UpdateUserParams) (user.User, error)
}

func (f *fakeAuthStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeAuthStore) Create(ctx context.Context, email, passwordHash, name, role string, isActive bool) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, role, isActive)
	}

	return user.User{}, nil
}

func (f *fakeAuthStore) Update(ctx context.Context, id string, params postgres.UpdateUserParams) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, params)
	}

	return user.User{}, nil
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", w.Body.String(), err)
	}

	return body
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return hash
}

func loginRouter(store *fakeAuthStore) *gin.Engine {
	manager := auth.NewManager("test-secret", time.Hour)
	h := handlers.NewAuthHandler(store, manager, config.Config{Env: "dev"})

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)

	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	stored := user.User{
		ID:           "u1",
		Email:        "sam@example.com",
		PasswordHash: mustHash(t, "hunter22"),
		Name:         "Sam",
		Role:         user.RoleUser,
		IsActive:     true,
	}

	store := &fakeAuthStore{getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
		if email != "sam@example.com" {
			return user.User{}, user.ErrNotFound
		}
		return stored, nil
	}}

	r := loginRouter(store)
	w := postJSON(r, "/api/auth/login", `{"email":"sam@example.com","password":"hunter22"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	body := decodeEnvelope(t, w)

	if body["success"] != true {
		t.Fatalf("success = %v, want true", body["success"])
	}

	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data missing from body %s", w.Body.String())
	}

	rawToken, _ := data["token"].(string)
	if rawToken == "" {
		t.Fatal("token missing from login response")
	}

	// the token in the body is the same session the cookie carries
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			cookie = c
		}
	}

	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if cookie.Value != rawToken {
		t.Fatal("cookie token differs from response token")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie path = %q, want /", cookie.Path)
	}

	claims, err := auth.NewManager("test-secret", time.Hour).VerifyToken(rawToken)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "sam@example.com" || claims.Role != user.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}

	// the password hash must never leak through the JSON encoder
	if strings.Contains(w.Body.String(), stored.PasswordHash) {
		t.Fatal("password hash leaked into login response")
	}
}

func TestLoginFailures(t *testing.T) {
	stored := user.User{
		ID:           "u1",
		Email:        "sam@example.com",
		PasswordHash: mustHash(t, "hunter22"),
		IsActive:     true,
	}

	deactivated := stored
	deactivated.IsActive = false

	tests := []struct {
		name       string
		body       string
		found      user.User
		findErr    error
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing fields",
			body:       `{"email":"sam@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email and password are required",
		},
		{
			name:       "unknown email",
			body:       `{"email":"nobody@example.com","password":"hunter22"}`,
			findErr:    user.ErrNotFound,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "wrong password",
			body:       `{"email":"sam@example.com","password":"wrong"}`,
			found:      stored,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "deactivated account",
			body:       `{"email":"sam@example.com","password":"hunter22"}`,
			found:      deactivated,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Account is deactivated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAuthStore{getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
				if tt.findErr != nil {
					return user.User{}, tt.findErr
				}
				return tt.found, nil
			}}

			r := loginRouter(store)
			w := postJSON(r, "/api/auth/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			body := decodeEnvelope(t, w)

			if body["error"] != tt.wantError {
				t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
			}

			if _, hasCookie := body["token"]; hasCookie {
				t.Fatal("failed login must not issue a token")
			}
		})
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginDoesNotRevealWhichEmailsExist(t *testing.T) {
	stored := user.User{
		ID:           "u1",
		Email:        "sam@example.com",
		PasswordHash: mustHash(t, "hunter22"),
		IsActive:     true,
	}

	store := &fakeAuthStore{getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
		if email == "sam@example.com" {
			return stored, nil
		}
		return user.User{}, user.ErrNotFound
	}}

	r := loginRouter(store)

	unknown := postJSON(r, "/api/auth/login", `{"email":"ghost@example.com","password":"whatever"}`)
	badPass := postJSON(r, "/api/auth/login", `{"email":"sam@example.com","password":"whatever"}`)

	if unknown.Code != badPass.Code {
		t.Fatalf("status differs: %d vs %d", unknown.Code, badPass.Code)
	}
	if unknown.Body.String() != badPass.Body.String() {
		t.Fatalf("bodies differ: %s vs %s", unknown.Body.String(), badPass.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := loginRouter(&fakeAuthStore{})
	w := postJSON(r, "/api/auth/logout", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := decodeEnvelope(t, w)
	if body["message"] != "Logged out successfully" {
		t.Fatalf("message = %v", body["message"])
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			cookie = c
		}
	}

	if cookie == nil {
		t.Fatal("logout did not touch the session cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantError  string
		wantRole   string
	}{
		{
			name:       "defaults role to user",
			body:       `{"email":"new@example.com","password":"secret1","name":"New User"}`,
			wantStatus: http.StatusOK,
			wantRole:   user.RoleUser,
		},
		{
			name:       "explicit admin role",
			body:       `{"email":"new@example.com","password":"secret1","name":"New Admin","role":"admin"}`,
			wantStatus: http.StatusOK,
			wantRole:   user.RoleAdmin,
		},
		{
			name:       "short password rejected",
			body:       `{"email":"new@example.com","password":"abc","name":"New User"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"dupe@example.com","password":"secret1","name":"Dupe"}`,
			createErr:  postgres.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRole string

			store := &fakeAuthStore{createFn: func(ctx context.Context, email, passwordHash, name, role string, isActive bool) (user.User, error) {
				if tt.createErr != nil {
					return user.User{}, tt.createErr
				}

				gotRole = role

				return user.User{ID: "u9", Email: email, Name: name, Role: role, IsActive: isActive}, nil
			}}

			manager := auth.NewManager("test-secret", time.Hour)
			h := handlers.NewAuthHandler(store, manager, config.Config{Env: "dev"})

			r := gin.New()
			r.POST("/api/auth/register", h.Register)

			w := postJSON(r, "/api/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantError != "" {
				body := decodeEnvelope(t, w)
				if body["error"] != tt.wantError {
					t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
				}
			}

			if tt.wantRole != "" && gotRole != tt.wantRole {
				t.Fatalf("role = %q, want %q", gotRole, tt.wantRole)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	acting := user.User{
		ID:           "u1",
		Email:        "sam@example.com",
		PasswordHash: mustHash(t, "oldpass99"),
		IsActive:     true,
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
		wantUpdate bool
	}{
		{
			name:       "missing fields",
			body:       `{"currentPassword":"oldpass99"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Current and new passwords are required",
		},
		{
			name:       "wrong current password",
			body:       `{"currentPassword":"nope","newPassword":"newpass99"}`,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Current password is incorrect",
		},
		{
			name:       "success",
			body:       `{"currentPassword":"oldpass99","newPassword":"newpass99"}`,
			wantStatus: http.StatusOK,
			wantUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated *postgres.UpdateUserParams

			store := &fakeAuthStore{updateFn: func(ctx context.Context, id string, params postgres.UpdateUserParams) (user.User, error) {
				updated = &params
				return acting, nil
			}}

			manager := auth.NewManager("test-secret", time.Hour)
			h := handlers.NewAuthHandler(store, manager, config.Config{Env: "dev"})

			r := gin.New()
			r.POST("/api/auth/change-password", func(c *gin.Context) {
				c.Set("auth.user", acting)
			}, h.ChangePassword)

			w := postJSON(r, "/api/auth/change-password", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantError != "" {
				body := decodeEnvelope(t, w)
				if body["error"] != tt.wantError {
					t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
				}
			}

			if tt.wantUpdate {
				if updated == nil || updated.PasswordHash == nil {
					t.Fatal("password hash was not updated")
				}
				if err := security.CheckPassword(*updated.PasswordHash, "newpass99"); err != nil {
					t.Fatal("stored hash does not match the new password")
				}
			} else if updated != nil {
				t.Fatal("update must not run on a failed change")
			}
		})
	}
}
