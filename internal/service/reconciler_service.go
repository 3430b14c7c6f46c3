package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/pkg/backend"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/jobs"
)

const (
	// RefreshJobType identifies delayed cache refresh jobs.
	RefreshJobType = "change-request-refresh"

	alreadyProcessedNotice = "This request was already processed by another administrator. The list has been refreshed."
)

// Reconciler action labels used for metrics and audit.
const (
	ActionApprove       = "approve"
	ActionReject        = "reject"
	ActionSwap          = "swap"
	ActionCourseApprove = "course_approve"
	ActionCourseReject  = "course_reject"
)

var (
	batchRequestKinds  = []models.EntityKind{models.EntityBatchChangeRequests, models.EntityStudents, models.EntityBatches}
	courseRequestKinds = []models.EntityKind{models.EntityCourseChangeRequests, models.EntityStudents, models.EntityBatches}
)

type changeRequestStore interface {
	ListBatchRequests(ctx context.Context) ([]models.BatchChangeRequest, error)
	CreateBatchRequest(ctx context.Context, req *models.BatchChangeRequest) (*models.BatchChangeRequest, error)
	ApproveBatchRequest(ctx context.Context, id string) error
	RejectBatchRequest(ctx context.Context, id, reason string) error
	SwapBatchRequests(ctx context.Context, id1, id2 string) error
	ListCourseRequests(ctx context.Context) ([]models.CourseChangeRequest, error)
	CreateCourseRequest(ctx context.Context, req *models.CourseChangeRequest) (*models.CourseChangeRequest, error)
	ApproveCourseRequest(ctx context.Context, id, batchID string) error
	RejectCourseRequest(ctx context.Context, id, reason string) error
}

type entityDirectory interface {
	Load(ctx context.Context, kind models.EntityKind, dest interface{}, fetch func(context.Context) error) error
	Invalidate(ctx context.Context, kinds ...models.EntityKind) error
	Students(ctx context.Context) ([]models.Student, error)
	Users(ctx context.Context) ([]models.User, error)
	Batches(ctx context.Context) ([]models.Batch, error)
	Courses(ctx context.Context) ([]models.Course, error)
}

type refreshScheduler interface {
	EnqueueAfter(job jobs.Job, delay time.Duration) error
}

// AuditLogger persists audit entries.
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// refreshPayload is carried by delayed refresh jobs. The session is kept so
// the job can re-warm the caller's view with the caller's token.
type refreshPayload struct {
	Course  bool
	Kinds   []models.EntityKind
	Session *models.Session
}

// ReconcilerOption customises ReconcilerService behaviour.
type ReconcilerOption func(*ReconcilerService)

// WithReconcilerLogger sets the logger.
func WithReconcilerLogger(logger *zap.Logger) ReconcilerOption {
	return func(s *ReconcilerService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReconcilerMetrics wires Prometheus counters.
func WithReconcilerMetrics(metrics *MetricsService) ReconcilerOption {
	return func(s *ReconcilerService) {
		s.metrics = metrics
	}
}

// WithReconcilerAudit wires the audit trail.
func WithReconcilerAudit(audit AuditLogger) ReconcilerOption {
	return func(s *ReconcilerService) {
		s.audit = audit
	}
}

// WithRefreshScheduler schedules a second invalidation once the backend has
// had settleDelay to commit a mutation.
func WithRefreshScheduler(scheduler refreshScheduler, settleDelay time.Duration) ReconcilerOption {
	return func(s *ReconcilerService) {
		s.scheduler = scheduler
		if settleDelay > 0 {
			s.settleDelay = settleDelay
		}
	}
}

// WithReconcilerClock overrides the clock.
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(s *ReconcilerService) {
		if now != nil {
			s.now = now
		}
	}
}

// ReconcilerService enriches change requests, pairs swap candidates and
// drives admin decisions against the backend.
type ReconcilerService struct {
	requests    changeRequestStore
	directory   entityDirectory
	scheduler   refreshScheduler
	audit       AuditLogger
	metrics     *MetricsService
	logger      *zap.Logger
	settleDelay time.Duration
	now         func() time.Time
}

// NewReconcilerService constructs the reconciler.
func NewReconcilerService(requests changeRequestStore, directory entityDirectory, opts ...ReconcilerOption) *ReconcilerService {
	svc := &ReconcilerService{
		requests:    requests,
		directory:   directory,
		logger:      zap.NewNop(),
		settleDelay: 500 * time.Millisecond,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// batchSnapshot is one consistent read of everything a batch view needs.
type batchSnapshot struct {
	requests []models.BatchChangeRequest
	students map[string]models.Student
	users    map[string]models.User
	batches  map[string]models.Batch
}

type courseSnapshot struct {
	requests []models.CourseChangeRequest
	students map[string]models.Student
	users    map[string]models.User
	batches  map[string]models.Batch
	courses  map[string]models.Course
}

// FetchAllBatchRequests returns the enriched Pending batch change requests.
// Two calls with no intervening mutation return identical lists.
func (s *ReconcilerService) FetchAllBatchRequests(ctx context.Context) ([]dto.EnrichedBatchRequest, error) {
	snap, err := s.loadBatchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return enrichBatchRequests(snap), nil
}

// SwapCandidates lists the mutual-exchange partners of request id.
func (s *ReconcilerService) SwapCandidates(ctx context.Context, id string) ([]dto.EnrichedBatchRequest, error) {
	view, err := s.FetchAllBatchRequests(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := findEnriched(view, id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "pending batch change request not found")
	}
	return FindSwapCandidates(target, view), nil
}

// FindSwapCandidates returns every other Pending request r with
// r.current == request.requested and r.requested == request.current. It is a
// pairwise scan; exchange chains of three or more are never formed.
func FindSwapCandidates(request dto.EnrichedBatchRequest, all []dto.EnrichedBatchRequest) []dto.EnrichedBatchRequest {
	candidates := make([]dto.EnrichedBatchRequest, 0)
	if request.CurrentBatchID == "" || request.RequestedBatchID == "" {
		return candidates
	}
	for _, r := range all {
		if r.ID == request.ID || !r.Status.IsPending() {
			continue
		}
		if r.CurrentBatchID == request.RequestedBatchID && r.RequestedBatchID == request.CurrentBatchID {
			candidates = append(candidates, r)
		}
	}
	return candidates
}

// Swap exchanges two students between their batches in one backend call.
func (s *ReconcilerService) Swap(ctx context.Context, req dto.SwapRequest) (*dto.ActionOutcome, error) {
	id1, id2 := strings.TrimSpace(req.RequestID1), strings.TrimSpace(req.RequestID2)
	if id1 == "" || id2 == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requestId1 and requestId2 are required")
	}
	if id1 == id2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a request cannot be swapped with itself")
	}
	ids := []string{id1, id2}

	snap, err := s.loadBatchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if outcome, err := s.checkBatchTransition(ctx, snap, ActionSwap, id, models.StatusApproved, ids); outcome != nil || err != nil {
			return outcome, err
		}
	}
	view := enrichBatchRequests(snap)
	first, _ := findEnriched(view, id1)
	if !containsRequest(FindSwapCandidates(first, view), id2) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requests do not form a mutual batch exchange")
	}

	if err := s.requests.SwapBatchRequests(ctx, id1, id2); err != nil {
		return s.handleBatchFailure(ctx, ActionSwap, ids, err)
	}

	applyBatchApproval(snap, id1)
	applyBatchApproval(snap, id2)
	s.afterMutation(ctx, false, batchRequestKinds)
	s.recordAction(ctx, ActionSwap, models.AuditActionRequestSwap, dto.OutcomeSwapped, ids)
	return &dto.ActionOutcome{Outcome: dto.OutcomeSwapped, RequestIDs: ids, BatchRequests: enrichBatchRequests(snap)}, nil
}

// Approve moves a single batch change request to Approved. The requested
// batch must have a free seat.
func (s *ReconcilerService) Approve(ctx context.Context, id string) (*dto.ActionOutcome, error) {
	ids := []string{id}
	snap, err := s.loadBatchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if outcome, err := s.checkBatchTransition(ctx, snap, ActionApprove, id, models.StatusApproved, ids); outcome != nil || err != nil {
		return outcome, err
	}
	enriched, _ := findEnriched(enrichBatchRequests(snap), id)
	if !enriched.SeatsAvailable {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "requested batch has no free seats")
	}

	if err := s.requests.ApproveBatchRequest(ctx, id); err != nil {
		return s.handleBatchFailure(ctx, ActionApprove, ids, err)
	}

	applyBatchApproval(snap, id)
	s.afterMutation(ctx, false, batchRequestKinds)
	s.recordAction(ctx, ActionApprove, models.AuditActionRequestApprove, dto.OutcomeApproved, ids)
	return &dto.ActionOutcome{Outcome: dto.OutcomeApproved, RequestIDs: ids, BatchRequests: enrichBatchRequests(snap)}, nil
}

// Reject moves a single batch change request to Rejected.
func (s *ReconcilerService) Reject(ctx context.Context, id, reason string) (*dto.ActionOutcome, error) {
	ids := []string{id}
	snap, err := s.loadBatchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if outcome, err := s.checkBatchTransition(ctx, snap, ActionReject, id, models.StatusRejected, ids); outcome != nil || err != nil {
		return outcome, err
	}

	if err := s.requests.RejectBatchRequest(ctx, id, strings.TrimSpace(reason)); err != nil {
		return s.handleBatchFailure(ctx, ActionReject, ids, err)
	}

	for i := range snap.requests {
		if snap.requests[i].ID == id {
			snap.requests[i].Status = models.StatusRejected
		}
	}
	s.afterMutation(ctx, false, []models.EntityKind{models.EntityBatchChangeRequests})
	s.recordAction(ctx, ActionReject, models.AuditActionRequestReject, dto.OutcomeRejected, ids)
	return &dto.ActionOutcome{Outcome: dto.OutcomeRejected, RequestIDs: ids, BatchRequests: enrichBatchRequests(snap)}, nil
}

// FetchAllCourseRequests returns the enriched Pending course change requests
// with the batches each one could be placed in.
func (s *ReconcilerService) FetchAllCourseRequests(ctx context.Context) ([]dto.EnrichedCourseRequest, error) {
	snap, err := s.loadCourseSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return enrichCourseRequests(snap), nil
}

// ApproveCourseRequest places the student in batchID, which must be one of
// the open batches of the requested course.
func (s *ReconcilerService) ApproveCourseRequest(ctx context.Context, id, batchID string) (*dto.ActionOutcome, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "batchId is required")
	}
	ids := []string{id}
	snap, err := s.loadCourseSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if outcome, err := s.checkCourseTransition(ctx, snap, ActionCourseApprove, id, models.StatusApproved); outcome != nil || err != nil {
		return outcome, err
	}
	enriched, _ := findEnrichedCourse(enrichCourseRequests(snap), id)
	if !hasBatch(enriched.AvailableBatches, batchID) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "selected batch is not open for the requested course")
	}

	if err := s.requests.ApproveCourseRequest(ctx, id, batchID); err != nil {
		return s.handleCourseFailure(ctx, ActionCourseApprove, ids, err)
	}

	applyCourseApproval(snap, id, batchID)
	s.afterMutation(ctx, true, courseRequestKinds)
	s.recordAction(ctx, ActionCourseApprove, models.AuditActionRequestApprove, dto.OutcomeApproved, ids)
	return &dto.ActionOutcome{Outcome: dto.OutcomeApproved, RequestIDs: ids, CourseRequests: enrichCourseRequests(snap)}, nil
}

// RejectCourseRequest moves a course change request to Rejected.
func (s *ReconcilerService) RejectCourseRequest(ctx context.Context, id, reason string) (*dto.ActionOutcome, error) {
	ids := []string{id}
	snap, err := s.loadCourseSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if outcome, err := s.checkCourseTransition(ctx, snap, ActionCourseReject, id, models.StatusRejected); outcome != nil || err != nil {
		return outcome, err
	}

	if err := s.requests.RejectCourseRequest(ctx, id, strings.TrimSpace(reason)); err != nil {
		return s.handleCourseFailure(ctx, ActionCourseReject, ids, err)
	}

	for i := range snap.requests {
		if snap.requests[i].ID == id {
			snap.requests[i].Status = models.StatusRejected
		}
	}
	s.afterMutation(ctx, true, []models.EntityKind{models.EntityCourseChangeRequests})
	s.recordAction(ctx, ActionCourseReject, models.AuditActionRequestReject, dto.OutcomeRejected, ids)
	return &dto.ActionOutcome{Outcome: dto.OutcomeRejected, RequestIDs: ids, CourseRequests: enrichCourseRequests(snap)}, nil
}

// HandleRefreshJob is the job handler for delayed refreshes. It drops the
// cached views again and re-warms the caller's list.
func (s *ReconcilerService) HandleRefreshJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(refreshPayload)
	if !ok {
		s.logger.Warn("ignoring refresh job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.directory.Invalidate(ctx, payload.Kinds...); err != nil {
		return err
	}
	if payload.Session == nil {
		return nil
	}
	ctx = ContextWithSession(ctx, payload.Session)
	var err error
	if payload.Course {
		_, err = s.FetchAllCourseRequests(ctx)
	} else {
		_, err = s.FetchAllBatchRequests(ctx)
	}
	if err != nil && backend.IsAuthFailure(err) {
		s.logger.Info("skipping refresh for revoked session", zap.String("job_id", job.ID))
		return nil
	}
	return err
}

func (s *ReconcilerService) loadBatchSnapshot(ctx context.Context) (*batchSnapshot, error) {
	var (
		requests []models.BatchChangeRequest
		students []models.Student
		users    []models.User
		batches  []models.Batch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.directory.Load(gctx, models.EntityBatchChangeRequests, &requests, func(ctx context.Context) error {
			list, err := s.requests.ListBatchRequests(ctx)
			requests = list
			return err
		})
	})
	g.Go(func() (err error) {
		students, err = s.directory.Students(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.directory.Users(gctx)
		return err
	})
	g.Go(func() (err error) {
		batches, err = s.directory.Batches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &batchSnapshot{
		requests: requests,
		students: indexStudents(students),
		users:    indexUsers(users),
		batches:  indexBatches(batches),
	}, nil
}

func (s *ReconcilerService) loadCourseSnapshot(ctx context.Context) (*courseSnapshot, error) {
	var (
		requests []models.CourseChangeRequest
		students []models.Student
		users    []models.User
		batches  []models.Batch
		courses  []models.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.directory.Load(gctx, models.EntityCourseChangeRequests, &requests, func(ctx context.Context) error {
			list, err := s.requests.ListCourseRequests(ctx)
			requests = list
			return err
		})
	})
	g.Go(func() (err error) {
		students, err = s.directory.Students(gctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.directory.Users(gctx)
		return err
	})
	g.Go(func() (err error) {
		batches, err = s.directory.Batches(gctx)
		return err
	})
	g.Go(func() (err error) {
		courses, err = s.directory.Courses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	courseIndex := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		courseIndex[c.ID] = c
	}
	return &courseSnapshot{
		requests: requests,
		students: indexStudents(students),
		users:    indexUsers(users),
		batches:  indexBatches(batches),
		courses:  courseIndex,
	}, nil
}

// checkBatchTransition returns an informational outcome when the cached view
// already shows the request as processed.
func (s *ReconcilerService) checkBatchTransition(ctx context.Context, snap *batchSnapshot, action, id string, to models.RequestStatus, ids []string) (*dto.ActionOutcome, error) {
	for _, r := range snap.requests {
		if r.ID != id {
			continue
		}
		if models.CanTransition(r.Status, to) {
			return nil, nil
		}
		if r.Status == models.StatusApproved || r.Status == models.StatusRejected {
			return s.alreadyProcessed(ctx, action, false, ids)
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "request status "+string(r.Status)+" cannot move to "+string(to))
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "batch change request not found")
}

func (s *ReconcilerService) checkCourseTransition(ctx context.Context, snap *courseSnapshot, action, id string, to models.RequestStatus) (*dto.ActionOutcome, error) {
	for _, r := range snap.requests {
		if r.ID != id {
			continue
		}
		if models.CanTransition(r.Status, to) {
			return nil, nil
		}
		if r.Status == models.StatusApproved || r.Status == models.StatusRejected {
			return s.alreadyProcessed(ctx, action, true, []string{id})
		}
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "request status "+string(r.Status)+" cannot move to "+string(to))
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course change request not found")
}

func (s *ReconcilerService) handleBatchFailure(ctx context.Context, action string, ids []string, err error) (*dto.ActionOutcome, error) {
	if backend.IsConflict(err) {
		return s.alreadyProcessed(ctx, action, false, ids)
	}
	s.metrics.RecordAction(action, "error")
	s.logger.Warn("change request action failed", zap.String("action", action), zap.Strings("request_ids", ids), zap.Error(err))
	return nil, err
}

func (s *ReconcilerService) handleCourseFailure(ctx context.Context, action string, ids []string, err error) (*dto.ActionOutcome, error) {
	if backend.IsConflict(err) {
		return s.alreadyProcessed(ctx, action, true, ids)
	}
	s.metrics.RecordAction(action, "error")
	s.logger.Warn("change request action failed", zap.String("action", action), zap.Strings("request_ids", ids), zap.Error(err))
	return nil, err
}

// alreadyProcessed turns a concurrent decision into a notice plus a fresh list.
func (s *ReconcilerService) alreadyProcessed(ctx context.Context, action string, course bool, ids []string) (*dto.ActionOutcome, error) {
	kinds := batchRequestKinds
	if course {
		kinds = courseRequestKinds
	}
	if err := s.directory.Invalidate(ctx, kinds...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
	s.metrics.RecordAction(action, dto.OutcomeAlreadyProcessed)
	s.logger.Info("change request already processed", zap.String("action", action), zap.Strings("request_ids", ids))

	outcome := &dto.ActionOutcome{Outcome: dto.OutcomeAlreadyProcessed, Notice: alreadyProcessedNotice, RequestIDs: ids}
	var err error
	if course {
		outcome.CourseRequests, err = s.FetchAllCourseRequests(ctx)
	} else {
		outcome.BatchRequests, err = s.FetchAllBatchRequests(ctx)
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// afterMutation invalidates now and once more after the settle delay, so a
// read racing the backend commit cannot stay cached.
func (s *ReconcilerService) afterMutation(ctx context.Context, course bool, kinds []models.EntityKind) {
	if err := s.directory.Invalidate(ctx, kinds...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
	if s.scheduler == nil {
		return
	}
	view := "batch"
	if course {
		view = "course"
	}
	job := jobs.Job{
		ID:      "refresh:" + view + ":" + cacheScope(ctx),
		Type:    RefreshJobType,
		Payload: refreshPayload{Course: course, Kinds: kinds, Session: SessionFromContext(ctx)},
	}
	if err := s.scheduler.EnqueueAfter(job, s.settleDelay); err != nil {
		s.logger.Warn("failed to schedule refresh", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ReconcilerService) recordAction(ctx context.Context, action, auditAction, outcome string, ids []string) {
	s.metrics.RecordAction(action, outcome)
	s.logger.Info("change request action applied", zap.String("action", action), zap.String("outcome", outcome), zap.Strings("request_ids", ids))
	for _, id := range ids {
		resourceID := id
		s.emitAudit(ctx, &models.AuditLog{
			UserID:     actorID(ctx),
			Action:     auditAction,
			Resource:   resourceForAction(action),
			ResourceID: &resourceID,
			Outcome:    outcome,
		})
	}
}

func (s *ReconcilerService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	if log.IPAddress == "" {
		log.IPAddress = "system"
	}
	if log.UserAgent == "" {
		log.UserAgent = "reconciler"
	}
	log.CreatedAt = s.now().UTC()
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func resourceForAction(action string) string {
	if action == ActionCourseApprove || action == ActionCourseReject {
		return string(models.EntityCourseChangeRequests)
	}
	return string(models.EntityBatchChangeRequests)
}

func enrichBatchRequests(snap *batchSnapshot) []dto.EnrichedBatchRequest {
	out := make([]dto.EnrichedBatchRequest, 0, len(snap.requests))
	for _, r := range snap.requests {
		if !r.Status.IsPending() {
			continue
		}
		student := snap.students[r.StudentID]
		current := snap.batches[student.EnrolledBatch]
		requested, found := snap.batches[r.RequestedBatchID]
		out = append(out, dto.EnrichedBatchRequest{
			ID:                 r.ID,
			StudentID:          r.StudentID,
			StudentName:        snap.users[student.UserID].Name,
			CurrentBatchID:     student.EnrolledBatch,
			CurrentBatchName:   current.BatchName,
			RequestedBatchID:   r.RequestedBatchID,
			RequestedBatchName: requested.BatchName,
			SeatsAvailable:     found && requested.HasSeats(),
			SeatsRemaining:     requested.SeatsRemaining(),
			Status:             r.Status,
			Reason:             r.Reason,
			Timestamp:          r.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		candidates := FindSwapCandidates(out[i], out)
		ids := make([]string, 0, len(candidates))
		for _, c := range candidates {
			ids = append(ids, c.ID)
		}
		out[i].SwapCandidateIDs = ids
	}
	return out
}

// availableBatchesByCourse maps each course to batches that are Upcoming or
// Ongoing with at least one free seat.
func availableBatchesByCourse(batches map[string]models.Batch) map[string][]dto.AvailableBatch {
	out := make(map[string][]dto.AvailableBatch)
	for _, b := range batches {
		if !b.AcceptsTransfers() {
			continue
		}
		out[b.CourseID] = append(out[b.CourseID], dto.AvailableBatch{
			ID:             b.ID,
			BatchName:      b.BatchName,
			Status:         b.Status,
			SeatsRemaining: b.SeatsRemaining(),
		})
	}
	for course := range out {
		list := out[course]
		sort.Slice(list, func(i, j int) bool {
			if list[i].BatchName != list[j].BatchName {
				return list[i].BatchName < list[j].BatchName
			}
			return list[i].ID < list[j].ID
		})
	}
	return out
}

func enrichCourseRequests(snap *courseSnapshot) []dto.EnrichedCourseRequest {
	available := availableBatchesByCourse(snap.batches)
	out := make([]dto.EnrichedCourseRequest, 0, len(snap.requests))
	for _, r := range snap.requests {
		if !r.Status.IsPending() {
			continue
		}
		student := snap.students[r.StudentID]
		current := snap.batches[student.EnrolledBatch]
		batches := available[r.RequestedCourseID]
		if batches == nil {
			batches = []dto.AvailableBatch{}
		}
		out = append(out, dto.EnrichedCourseRequest{
			ID:                  r.ID,
			StudentID:           r.StudentID,
			StudentName:         snap.users[student.UserID].Name,
			CurrentBatchID:      student.EnrolledBatch,
			CurrentCourseID:     current.CourseID,
			CurrentCourseName:   snap.courses[current.CourseID].CourseName,
			RequestedCourseID:   r.RequestedCourseID,
			RequestedCourseName: snap.courses[r.RequestedCourseID].CourseName,
			AvailableBatches:    batches,
			HasAvailableBatches: len(batches) > 0,
			Status:              r.Status,
			Reason:              r.Reason,
			Timestamp:           r.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// applyBatchApproval projects an approval onto snap the way the backend
// applies it: the request is approved, the student moves and seats follow.
func applyBatchApproval(snap *batchSnapshot, id string) {
	for i := range snap.requests {
		r := &snap.requests[i]
		if r.ID != id {
			continue
		}
		r.Status = models.StatusApproved
		moveStudent(snap.students, snap.batches, r.StudentID, r.RequestedBatchID)
	}
}

func applyCourseApproval(snap *courseSnapshot, id, batchID string) {
	for i := range snap.requests {
		r := &snap.requests[i]
		if r.ID != id {
			continue
		}
		r.Status = models.StatusApproved
		moveStudent(snap.students, snap.batches, r.StudentID, batchID)
	}
}

func moveStudent(students map[string]models.Student, batches map[string]models.Batch, studentID, to string) {
	student, ok := students[studentID]
	if !ok || student.EnrolledBatch == to {
		return
	}
	if from, ok := batches[student.EnrolledBatch]; ok && from.OccupiedSeat > 0 {
		from.OccupiedSeat--
		batches[from.ID] = from
	}
	if dest, ok := batches[to]; ok {
		dest.OccupiedSeat++
		batches[to] = dest
	}
	student.EnrolledBatch = to
	students[studentID] = student
}

func findEnriched(list []dto.EnrichedBatchRequest, id string) (dto.EnrichedBatchRequest, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return dto.EnrichedBatchRequest{}, false
}

func findEnrichedCourse(list []dto.EnrichedCourseRequest, id string) (dto.EnrichedCourseRequest, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return dto.EnrichedCourseRequest{}, false
}

func containsRequest(list []dto.EnrichedBatchRequest, id string) bool {
	_, ok := findEnriched(list, id)
	return ok
}

func hasBatch(list []dto.AvailableBatch, id string) bool {
	for _, b := range list {
		if b.ID == id {
			return true
		}
	}
	return false
}

func indexStudents(list []models.Student) map[string]models.Student {
	out := make(map[string]models.Student, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}

func indexUsers(list []models.User) map[string]models.User {
	out := make(map[string]models.User, len(list))
	for _, u := range list {
		out[u.ID] = u
	}
	return out
}

func indexBatches(list []models.Batch) map[string]models.Batch {
	out := make(map[string]models.Batch, len(list))
	for _, b := range list {
		out[b.ID] = b
	}
	return out
}
