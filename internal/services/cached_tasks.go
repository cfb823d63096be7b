package services

import (
	"fmt"
	"time"

	"tasktracker/internal/cache"
	"tasktracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService decorates a TaskService with a Redis read-through
// cache. Cache keys always embed the owner, so a hit can never serve
// another user's data; every write invalidates the owner's entries.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.RedisCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func taskKey(userID uuid.UUID, id uint) string {
	return fmt.Sprintf("task:%s:%d", userID.String(), id)
}

func listKey(userID uuid.UUID, search, ordering string) string {
	return fmt.Sprintf("user_tasks:%s:%s:%s", userID.String(), search, ordering)
}

func (s *CachedTaskService) invalidateUser(userID uuid.UUID) {
	s.cache.DeletePattern(fmt.Sprintf("user_tasks:%s:*", userID.String()))
}

func (s *CachedTaskService) ListTasks(db *gorm.DB, userID uuid.UUID, search, ordering string) ([]models.Task, error) {
	key := listKey(userID, search, ordering)

	var cached []models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.ListTasks(db, userID, search, ordering)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, tasks, 5*time.Minute)

	return tasks, nil
}

func (s *CachedTaskService) GetTask(db *gorm.DB, userID uuid.UUID, id uint) (models.Task, error) {
	key := taskKey(userID, id)

	var cached models.Task
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTask(db, userID, id)
	if err != nil {
		return task, err
	}

	s.cache.Set(key, task, 30*time.Minute)

	return task, nil
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	created, err := s.taskService.CreateTask(db, task)
	if err != nil {
		return created, err
	}

	s.cache.Set(taskKey(created.UserID, created.ID), created, 30*time.Minute)
	s.invalidateUser(created.UserID)

	return created, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, userID uuid.UUID, id uint, patch TaskPatch) (models.Task, error) {
	updated, err := s.taskService.UpdateTask(db, userID, id, patch)
	if err != nil {
		return updated, err
	}

	s.cache.Set(taskKey(userID, id), updated, 30*time.Minute)
	s.invalidateUser(userID)

	return updated, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, userID uuid.UUID, id uint) error {
	if err := s.taskService.DeleteTask(db, userID, id); err != nil {
		return err
	}

	s.cache.Delete(taskKey(userID, id))
	s.invalidateUser(userID)

	return nil
}
