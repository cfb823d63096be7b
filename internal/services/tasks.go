package services

import (
	"errors"
	"strings"

	"tasktracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrInvalidOrdering = errors.New("unsupported ordering field")

// likeEscaper neutralizes LIKE wildcards so a search query is always
// a literal substring match.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// orderableFields is the whitelist of fields a client may sort by. An
// optional leading "-" selects descending order.
var orderableFields = map[string]bool{
	"created_at": true,
	"title":      true,
	"is_done":    true,
}

// TaskPatch carries a partial update. Nil fields are left untouched;
// the owner is never part of a patch.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsDone      *bool   `json:"is_done"`
}

type TaskService interface {
	ListTasks(db *gorm.DB, userID uuid.UUID, search, ordering string) ([]models.Task, error)
	GetTask(db *gorm.DB, userID uuid.UUID, id uint) (models.Task, error)
	CreateTask(db *gorm.DB, task models.Task) (models.Task, error)
	UpdateTask(db *gorm.DB, userID uuid.UUID, id uint, patch TaskPatch) (models.Task, error)
	DeleteTask(db *gorm.DB, userID uuid.UUID, id uint) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ownedBy is the predicate applied at the query boundary for every
// task operation. A task outside this scope is indistinguishable from
// an absent one.
func ownedBy(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Where("user_id = ?", userID)
}

func orderClause(ordering string) (string, error) {
	if ordering == "" {
		return "created_at DESC", nil
	}

	field := ordering
	desc := false
	if strings.HasPrefix(ordering, "-") {
		field = strings.TrimPrefix(ordering, "-")
		desc = true
	}

	if !orderableFields[field] {
		return "", ErrInvalidOrdering
	}

	if desc {
		return field + " DESC", nil
	}
	return field + " ASC", nil
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, userID uuid.UUID, search, ordering string) ([]models.Task, error) {
	order, err := orderClause(ordering)
	if err != nil {
		return nil, err
	}

	query := ownedBy(db, userID)
	if search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", pattern, pattern)
	}

	tasks := []models.Task{}
	if err := query.Order(order).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, userID uuid.UUID, id uint) (models.Task, error) {
	var task models.Task
	err := ownedBy(db, userID).First(&task, "id = ?", id).Error
	return task, err
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	// The caller sets UserID from the authenticated session; any
	// identifier supplied by the client has been discarded upstream.
	task.ID = 0
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, userID uuid.UUID, id uint, patch TaskPatch) (models.Task, error) {
	var task models.Task
	if err := ownedBy(db, userID).First(&task, "id = ?", id).Error; err != nil {
		return models.Task{}, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.IsDone != nil {
		task.IsDone = *patch.IsDone
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, userID uuid.UUID, id uint) error {
	result := ownedBy(db, userID).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
