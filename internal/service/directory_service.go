package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/models"
)

const cacheKeyPrefix = "portal"

type resourceStore interface {
	List(ctx context.Context, kind models.EntityKind, query url.Values, out interface{}) error
	Get(ctx context.Context, kind models.EntityKind, id string, out interface{}) error
	Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error
	Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error
	Delete(ctx context.Context, kind models.EntityKind, id string) error
}

type entityCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CacheKey is the entity list key for a cache scope: the role for admins,
// role and user ID for everyone else. The backend filters collections by the
// caller's token, so two students never share a list.
func CacheKey(scope string, kind models.EntityKind) string {
	return fmt.Sprintf("%s:%s:%s:list", cacheKeyPrefix, scope, kind)
}

// InvalidationPattern matches every cached view of kind across scopes.
func InvalidationPattern(kind models.EntityKind) string {
	return fmt.Sprintf("%s:*:%s:*", cacheKeyPrefix, kind)
}

// DirectoryService is the single read path for backend entities. Every
// screen reads through it so invalidating one entity kind refreshes all of
// them.
type DirectoryService struct {
	store   resourceStore
	cache   entityCache
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDirectoryService constructs the directory. cache may be nil.
func NewDirectoryService(store resourceStore, cache entityCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{store: store, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Load fills dest from the cache, falling back to fetch on a miss. fetch must
// populate dest.
func (s *DirectoryService) Load(ctx context.Context, kind models.EntityKind, dest interface{}, fetch func(context.Context) error) error {
	scope := cacheScope(ctx)
	if s.cache == nil || scope == "" {
		return fetch(ctx)
	}
	key := CacheKey(scope, kind)
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Debug("cache read failed, using backend", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return nil
	}
	if err := fetch(ctx); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, dest, s.ttl); err != nil {
		s.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Invalidate drops every cached view of the given kinds.
func (s *DirectoryService) Invalidate(ctx context.Context, kinds ...models.EntityKind) error {
	if s.cache == nil {
		return nil
	}
	var firstErr error
	for _, kind := range kinds {
		if err := s.cache.Invalidate(ctx, InvalidationPattern(kind)); err != nil && firstErr == nil {
			firstErr = err
		}
		s.metrics.RecordInvalidation(string(kind))
	}
	return firstErr
}

func (s *DirectoryService) list(ctx context.Context, kind models.EntityKind, dest interface{}) error {
	return s.Load(ctx, kind, dest, func(ctx context.Context) error {
		return s.store.List(ctx, kind, nil, dest)
	})
}

// Courses returns the course catalog.
func (s *DirectoryService) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	err := s.list(ctx, models.EntityCourses, &out)
	return out, err
}

// Batches returns every batch.
func (s *DirectoryService) Batches(ctx context.Context) ([]models.Batch, error) {
	var out []models.Batch
	err := s.list(ctx, models.EntityBatches, &out)
	return out, err
}

// Students returns every student record visible to the caller.
func (s *DirectoryService) Students(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	err := s.list(ctx, models.EntityStudents, &out)
	return out, err
}

// Users returns every user account visible to the caller.
func (s *DirectoryService) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.list(ctx, models.EntityUsers, &out)
	return out, err
}

// Instructors returns the teaching staff.
func (s *DirectoryService) Instructors(ctx context.Context) ([]models.Instructor, error) {
	var out []models.Instructor
	err := s.list(ctx, models.EntityInstructors, &out)
	return out, err
}

// Results returns every result visible to the caller.
func (s *DirectoryService) Results(ctx context.Context) ([]models.Result, error) {
	var out []models.Result
	err := s.list(ctx, models.EntityResults, &out)
	return out, err
}

// Notices returns published notices.
func (s *DirectoryService) Notices(ctx context.Context) ([]models.Notice, error) {
	var out []models.Notice
	err := s.list(ctx, models.EntityNotices, &out)
	return out, err
}

// Routines returns the weekly routine.
func (s *DirectoryService) Routines(ctx context.Context) ([]models.Routine, error) {
	var out []models.Routine
	err := s.list(ctx, models.EntityRoutines, &out)
	return out, err
}

// List decodes a whole collection through the cache.
func (s *DirectoryService) List(ctx context.Context, kind models.EntityKind, dest interface{}) error {
	return s.list(ctx, kind, dest)
}

// Get reads a single record straight from the backend.
func (s *DirectoryService) Get(ctx context.Context, kind models.EntityKind, id string, dest interface{}) error {
	return s.store.Get(ctx, kind, id, dest)
}

// Create writes a record and invalidates its kind.
func (s *DirectoryService) Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error {
	if err := s.store.Create(ctx, kind, body, out); err != nil {
		return err
	}
	return s.invalidateAfterWrite(ctx, kind)
}

// Update patches a record and invalidates its kind.
func (s *DirectoryService) Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error {
	if err := s.store.Update(ctx, kind, id, body, out); err != nil {
		return err
	}
	return s.invalidateAfterWrite(ctx, kind)
}

// Delete removes a record and invalidates its kind.
func (s *DirectoryService) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	return s.invalidateAfterWrite(ctx, kind)
}

func (s *DirectoryService) invalidateAfterWrite(ctx context.Context, kind models.EntityKind) error {
	if err := s.Invalidate(ctx, kind); err != nil {
		s.logger.Warn("cache invalidation after write failed", zap.String("entity", string(kind)), zap.Error(err))
	}
	return nil
}
