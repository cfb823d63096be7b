package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasktracker/internal/handlers"
	"tasktracker/internal/models"
	"tasktracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MockRegisterService struct {
	existing map[string]bool
}

func (m *MockRegisterService) RegisterUser(db *gorm.DB, req services.RegistrationRequest) (*models.User, error) {
	if m.existing == nil {
		m.existing = make(map[string]bool)
	}
	if m.existing[req.Username] {
		return nil, services.ErrDuplicateUsername
	}
	m.existing[req.Username] = true
	return &models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: req.Username,
		Password: "$2a$10$hash",
		Email:    req.Email,
	}, nil
}

func setupRegisterRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRegisterHandler(nil, &MockRegisterService{})
	router := gin.New()
	router.POST("/users", handler.Registration)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegistration(t *testing.T) {
	router := setupRegisterRouter()

	w := postJSON(router, "/users", `{"username": "alice", "password": "password1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, "alice") {
		t.Errorf("Expected username in response, got %s", body)
	}
	if strings.Contains(body, "password") || strings.Contains(body, "hash") {
		t.Errorf("Response must not echo the password, got %s", body)
	}
}

func TestRegistrationMissingFields(t *testing.T) {
	router := setupRegisterRouter()

	cases := []string{
		`{}`,
		`{"username": "alice"}`,
		`{"password": "password1"}`,
		`{"username": "alice", "password": "short"}`,
	}
	for _, body := range cases {
		if w := postJSON(router, "/users", body); w.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected status %d, got %d", body, http.StatusBadRequest, w.Code)
		}
	}
}

func TestRegistrationInvalidUsername(t *testing.T) {
	router := setupRegisterRouter()

	w := postJSON(router, "/users", `{"username": "not valid!", "password": "password1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRegistrationDuplicateUsername(t *testing.T) {
	router := setupRegisterRouter()

	if w := postJSON(router, "/users", `{"username": "alice", "password": "password1"}`); w.Code != http.StatusCreated {
		t.Fatalf("First registration: expected %d, got %d", http.StatusCreated, w.Code)
	}

	w := postJSON(router, "/users", `{"username": "alice", "password": "password2"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Duplicate registration: expected %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !strings.Contains(w.Body.String(), "username") {
		t.Errorf("Expected field-level detail for username, got %s", w.Body.String())
	}
}
