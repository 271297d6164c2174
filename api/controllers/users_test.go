package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tourhub-io/tourhub-backend/api/middleware"
	"github.com/tourhub-io/tourhub-backend/api/responses"
	usersvc "github.com/tourhub-io/tourhub-backend/internal/users"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
)

func openUsersDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:controllers_users?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		photo TEXT NOT NULL DEFAULT 'unknown.png',
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user',
		active INTEGER NOT NULL DEFAULT 1,
		failed_attempts INTEGER NOT NULL DEFAULT 0,
		blocked_until DATETIME,
		password_changed_at DATETIME,
		password_reset_token_hash TEXT,
		password_reset_expires_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := conn.Exec(`DELETE FROM users`).Error; err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return conn
}

func newUsersService(t *testing.T) (*usersvc.Service, *usersvc.Repository) {
	t.Helper()
	repo := usersvc.NewRepository(openUsersDB(t))
	return usersvc.NewService(repo), repo
}

func seedAccount(t *testing.T, repo *usersvc.Repository, name, email string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), usersvc.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: "argon2id$stub",
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return user
}

func TestGetMe(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Alice Doe", Email: "alice@example.com"}
	handler := GetMe(responses.Writer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data usersvc.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != user.ID {
		t.Fatalf("expected id %s got %s", user.ID, envelope.Data.ID)
	}
}

func TestUpdateMeRejectsPasswordFields(t *testing.T) {
	handler := UpdateMe(nil, responses.Writer{})

	body := `{"password":"newpass123","passwordConfirm":"newpass123"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-myself", strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: uuid.New()}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "forgot-password") {
		t.Fatalf("expected redirect hint, got %s", rec.Body.String())
	}
}

func TestUpdateMeProfileFields(t *testing.T) {
	svc, repo := newUsersService(t)
	user := seedAccount(t, repo, "Alice Doe", "alice@example.com")
	handler := UpdateMe(svc, responses.Writer{})

	body := `{"name":"Alice Updated"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/update-myself", strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data usersvc.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Alice Updated" {
		t.Fatalf("expected updated name, got %q", envelope.Data.Name)
	}
}

func TestDeleteMeSoftDeletes(t *testing.T) {
	svc, repo := newUsersService(t)
	user := seedAccount(t, repo, "Alice Doe", "alice@example.com")
	handler := DeleteMe(svc, responses.Writer{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete-myself", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}

	// the account drops out of active-scoped lookups but the row remains
	if _, err := repo.FindByID(context.Background(), user.ID); err == nil {
		t.Fatal("expected active-scoped lookup to miss after soft delete")
	}
	if _, err := repo.FindByIDAnyState(context.Background(), user.ID); err != nil {
		t.Fatalf("expected row to survive soft delete: %v", err)
	}
}

func TestListUsersHidesInactive(t *testing.T) {
	svc, repo := newUsersService(t)
	seedAccount(t, repo, "Alice Doe", "alice@example.com")
	gone := seedAccount(t, repo, "Bob Gone", "bob@example.com")
	if err := repo.Deactivate(context.Background(), gone.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	handler := ListUsers(svc, responses.Writer{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Results int               `json:"results"`
		Data    []usersvc.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Results != 1 || len(envelope.Data) != 1 {
		t.Fatalf("expected 1 active user, got %d", envelope.Results)
	}
	if envelope.Data[0].Email != "alice@example.com" {
		t.Fatalf("unexpected user %q", envelope.Data[0].Email)
	}
}

func TestDeleteUserByID(t *testing.T) {
	svc, repo := newUsersService(t)
	user := seedAccount(t, repo, "Alice Doe", "alice@example.com")

	router := chi.NewRouter()
	router.Delete("/api/v1/users/{id}", DeleteUser(svc, responses.Writer{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+user.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+user.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestDeleteUserMalformedID(t *testing.T) {
	router := chi.NewRouter()
	router.Delete("/api/v1/users/{id}", DeleteUser(nil, responses.Writer{}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
