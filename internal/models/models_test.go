package models_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tasktracker/internal/models"

	"github.com/gofrs/uuid"
)

func TestTaskJSONHidesOwner(t *testing.T) {
	task := models.Task{
		ID:          42,
		Title:       "Buy milk",
		Description: "2 liters",
		IsDone:      false,
		UserID:      uuid.Must(uuid.NewV4()),
		CreatedAt:   time.Now(),
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}

	body := string(data)
	if strings.Contains(body, "user_id") || strings.Contains(body, task.UserID.String()) {
		t.Errorf("task representation must not expose the owner, got %s", body)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal task: %v", err)
	}
	if decoded["id"] != float64(42) {
		t.Errorf("expected integer id 42, got %v", decoded["id"])
	}
	if decoded["is_done"] != false {
		t.Errorf("expected is_done false, got %v", decoded["is_done"])
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "alice",
		Password: "$2a$10$somethinghashed",
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("failed to marshal user: %v", err)
	}

	if strings.Contains(string(data), "hashed") || strings.Contains(string(data), "password") {
		t.Errorf("user representation must not expose the password, got %s", string(data))
	}
}
