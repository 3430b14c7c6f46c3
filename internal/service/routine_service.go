package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
)

const clockLayout = "15:04"

type routineDirectory interface {
	Routines(ctx context.Context) ([]models.Routine, error)
	Create(ctx context.Context, kind models.EntityKind, body, out interface{}) error
	Update(ctx context.Context, kind models.EntityKind, id string, body, out interface{}) error
}

// RoutineService books weekly class slots without double-booking a batch,
// an instructor or a room.
type RoutineService struct {
	directory routineDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoutineService constructs the service.
func NewRoutineService(directory routineDirectory, validate *validator.Validate, logger *zap.Logger) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{directory: directory, validator: validate, logger: logger}
}

// Check returns every existing slot the candidate clashes with.
func (s *RoutineService) Check(ctx context.Context, candidate models.Routine) ([]dto.RoutineConflict, error) {
	if err := s.validate(candidate); err != nil {
		return nil, err
	}
	existing, err := s.directory.Routines(ctx)
	if err != nil {
		return nil, err
	}
	return FindRoutineConflicts(candidate, existing), nil
}

// Create books a slot once it is free of conflicts.
func (s *RoutineService) Create(ctx context.Context, candidate models.Routine) (*models.Routine, error) {
	if err := s.guard(ctx, candidate); err != nil {
		return nil, err
	}
	var created models.Routine
	if err := s.directory.Create(ctx, models.EntityRoutines, candidate, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		created = candidate
	}
	return &created, nil
}

// Update moves an existing slot; it never conflicts with itself.
func (s *RoutineService) Update(ctx context.Context, id string, candidate models.Routine) (*models.Routine, error) {
	candidate.ID = id
	if err := s.guard(ctx, candidate); err != nil {
		return nil, err
	}
	var updated models.Routine
	if err := s.directory.Update(ctx, models.EntityRoutines, id, candidate, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		updated = candidate
	}
	return &updated, nil
}

func (s *RoutineService) guard(ctx context.Context, candidate models.Routine) error {
	conflicts, err := s.Check(ctx, candidate)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		first := conflicts[0]
		s.logger.Info("routine conflict", zap.String("batch_id", candidate.BatchID), zap.String("clashes_with", first.Existing.ID), zap.String("reason", first.Reason))
		return appErrors.Clone(appErrors.ErrRoutineConflict, fmt.Sprintf("%s (%s %s-%s)", first.Reason, first.Existing.Day, first.Existing.StartTime, first.Existing.EndTime))
	}
	return nil
}

func (s *RoutineService) validate(r models.Routine) error {
	if err := s.validator.Struct(r); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine payload")
	}
	start, end, err := slotBounds(r)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "times must be HH:MM")
	}
	if !end.After(start) {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}
	return nil
}

// FindRoutineConflicts reports entries on the same day whose [start, end)
// overlaps the candidate and that share its batch, instructor or room.
// Entries with unparsable times are ignored.
func FindRoutineConflicts(candidate models.Routine, existing []models.Routine) []dto.RoutineConflict {
	conflicts := make([]dto.RoutineConflict, 0)
	cStart, cEnd, err := slotBounds(candidate)
	if err != nil {
		return conflicts
	}
	day := normalizeDay(candidate.Day)
	for _, e := range existing {
		if candidate.ID != "" && e.ID == candidate.ID {
			continue
		}
		if normalizeDay(e.Day) != day {
			continue
		}
		eStart, eEnd, err := slotBounds(e)
		if err != nil {
			continue
		}
		if !(cStart.Before(eEnd) && eStart.Before(cEnd)) {
			continue
		}
		if reason := sharedResource(candidate, e); reason != "" {
			conflicts = append(conflicts, dto.RoutineConflict{Existing: e, Reason: reason})
		}
	}
	return conflicts
}

func sharedResource(a, b models.Routine) string {
	switch {
	case a.BatchID != "" && a.BatchID == b.BatchID:
		return "batch already has a class at this time"
	case a.InstructorID != "" && a.InstructorID == b.InstructorID:
		return "instructor is already teaching at this time"
	case a.Room != "" && strings.EqualFold(strings.TrimSpace(a.Room), strings.TrimSpace(b.Room)):
		return "room is already booked at this time"
	default:
		return ""
	}
}

func slotBounds(r models.Routine) (time.Time, time.Time, error) {
	start, err := time.Parse(clockLayout, strings.TrimSpace(r.StartTime))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(clockLayout, strings.TrimSpace(r.EndTime))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func normalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}
