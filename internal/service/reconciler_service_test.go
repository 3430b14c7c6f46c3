package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/pkg/backend"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/jobs"
)

type changeRequestStoreStub struct {
	mu             sync.Mutex
	batchRequests  []models.BatchChangeRequest
	courseRequests []models.CourseChangeRequest
	actionErr      error
	afterConflict  func(s *changeRequestStoreStub)
	calls          []string
}

func (s *changeRequestStoreStub) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.actionErr != nil && s.afterConflict != nil {
		s.afterConflict(s)
	}
	return s.actionErr
}

func (s *changeRequestStoreStub) ListBatchRequests(ctx context.Context) ([]models.BatchChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BatchChangeRequest(nil), s.batchRequests...), nil
}

func (s *changeRequestStoreStub) CreateBatchRequest(ctx context.Context, req *models.BatchChangeRequest) (*models.BatchChangeRequest, error) {
	if err := s.record("create-batch"); err != nil {
		return nil, err
	}
	created := *req
	created.ID = "new-batch-request"
	return &created, nil
}

func (s *changeRequestStoreStub) ApproveBatchRequest(ctx context.Context, id string) error {
	return s.record("approve:" + id)
}

func (s *changeRequestStoreStub) RejectBatchRequest(ctx context.Context, id, reason string) error {
	return s.record("reject:" + id + ":" + reason)
}

func (s *changeRequestStoreStub) SwapBatchRequests(ctx context.Context, id1, id2 string) error {
	return s.record("swap:" + id1 + ":" + id2)
}

func (s *changeRequestStoreStub) ListCourseRequests(ctx context.Context) ([]models.CourseChangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CourseChangeRequest(nil), s.courseRequests...), nil
}

func (s *changeRequestStoreStub) CreateCourseRequest(ctx context.Context, req *models.CourseChangeRequest) (*models.CourseChangeRequest, error) {
	if err := s.record("create-course"); err != nil {
		return nil, err
	}
	created := *req
	created.ID = "new-course-request"
	return &created, nil
}

func (s *changeRequestStoreStub) ApproveCourseRequest(ctx context.Context, id, batchID string) error {
	return s.record("course-approve:" + id + ":" + batchID)
}

func (s *changeRequestStoreStub) RejectCourseRequest(ctx context.Context, id, reason string) error {
	return s.record("course-reject:" + id)
}

type directoryStub struct {
	mu          sync.Mutex
	students    []models.Student
	users       []models.User
	batches     []models.Batch
	courses     []models.Course
	invalidated []models.EntityKind
	loads       int
}

func (d *directoryStub) Load(ctx context.Context, kind models.EntityKind, dest interface{}, fetch func(context.Context) error) error {
	d.mu.Lock()
	d.loads++
	d.mu.Unlock()
	return fetch(ctx)
}

func (d *directoryStub) Invalidate(ctx context.Context, kinds ...models.EntityKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidated = append(d.invalidated, kinds...)
	return nil
}

func (d *directoryStub) Students(ctx context.Context) ([]models.Student, error) {
	return append([]models.Student(nil), d.students...), nil
}

func (d *directoryStub) Users(ctx context.Context) ([]models.User, error) {
	return append([]models.User(nil), d.users...), nil
}

func (d *directoryStub) Batches(ctx context.Context) ([]models.Batch, error) {
	return append([]models.Batch(nil), d.batches...), nil
}

func (d *directoryStub) Courses(ctx context.Context) ([]models.Course, error) {
	return append([]models.Course(nil), d.courses...), nil
}

type schedulerStub struct {
	jobs   []jobs.Job
	delays []time.Duration
}

func (s *schedulerStub) EnqueueAfter(job jobs.Job, delay time.Duration) error {
	s.jobs = append(s.jobs, job)
	s.delays = append(s.delays, delay)
	return nil
}

type auditStub struct {
	logs []models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, *log)
	return nil
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fixture: students s1 (Batch1) and s2 (Batch2) want to trade places, s3
// (Batch1) wants the full Batch3.
func newFixture() (*changeRequestStoreStub, *directoryStub) {
	store := &changeRequestStoreStub{
		batchRequests: []models.BatchChangeRequest{
			{ID: "A", StudentID: "s1", RequestedBatchID: "b2", Status: models.StatusPending, Timestamp: baseTime},
			{ID: "B", StudentID: "s2", RequestedBatchID: "b1", Status: models.StatusPending, Timestamp: baseTime.Add(time.Minute)},
			{ID: "C", StudentID: "s3", RequestedBatchID: "b3", Status: models.StatusPending, Timestamp: baseTime.Add(2 * time.Minute)},
			{ID: "D", StudentID: "s4", RequestedBatchID: "b1", Status: models.StatusApproved, Timestamp: baseTime.Add(-time.Hour)},
		},
		courseRequests: []models.CourseChangeRequest{
			{ID: "CR1", StudentID: "s1", RequestedCourseID: "c2", Status: models.StatusPending, Timestamp: baseTime},
			{ID: "CR2", StudentID: "s2", RequestedCourseID: "c3", Status: models.StatusPending, Timestamp: baseTime.Add(time.Minute)},
		},
	}
	dir := &directoryStub{
		students: []models.Student{
			{ID: "s1", UserID: "u1", EnrolledBatch: "b1"},
			{ID: "s2", UserID: "u2", EnrolledBatch: "b2"},
			{ID: "s3", UserID: "u3", EnrolledBatch: "b1"},
			{ID: "s4", UserID: "u4", EnrolledBatch: "b1"},
		},
		users: []models.User{
			{ID: "u1", Name: "Ada"},
			{ID: "u2", Name: "Grace"},
			{ID: "u3", Name: "Linus"},
			{ID: "u4", Name: "Ken"},
		},
		batches: []models.Batch{
			{ID: "b1", BatchName: "Batch1", CourseID: "c1", Seat: 10, OccupiedSeat: 9, Status: models.BatchStatusOngoing},
			{ID: "b2", BatchName: "Batch2", CourseID: "c1", Seat: 10, OccupiedSeat: 10, Status: models.BatchStatusOngoing},
			{ID: "b3", BatchName: "Batch3", CourseID: "c1", Seat: 5, OccupiedSeat: 5, Status: models.BatchStatusUpcoming},
			{ID: "b4", BatchName: "Batch4", CourseID: "c2", Seat: 20, OccupiedSeat: 3, Status: models.BatchStatusUpcoming},
			{ID: "b5", BatchName: "Batch5", CourseID: "c2", Seat: 20, OccupiedSeat: 1, Status: models.BatchStatusCompleted},
			{ID: "b6", BatchName: "Batch6", CourseID: "c3", Seat: 8, OccupiedSeat: 8, Status: models.BatchStatusOngoing},
		},
		courses: []models.Course{
			{ID: "c1", CourseName: "Web Development"},
			{ID: "c2", CourseName: "Data Science"},
			{ID: "c3", CourseName: "Cloud Ops"},
		},
	}
	return store, dir
}

func conflictErr() error {
	statusErr := &backend.StatusError{Method: http.MethodPatch, Path: "/batch-change-requests/A/approve", Status: http.StatusConflict, Message: "already processed"}
	return appErrors.Wrap(statusErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, statusErr.Message)
}

func adminCtx() context.Context {
	return ContextWithSession(context.Background(), &models.Session{ID: "sess-1", Token: "tok", UserID: "admin-1", Role: models.RoleAdmin})
}

func TestFetchAllBatchRequestsEnrichesPendingRequests(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	list, err := svc.FetchAllBatchRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{list[0].ID, list[1].ID, list[2].ID})

	a := list[0]
	assert.Equal(t, "Ada", a.StudentName)
	assert.Equal(t, "b1", a.CurrentBatchID)
	assert.Equal(t, "Batch1", a.CurrentBatchName)
	assert.Equal(t, "Batch2", a.RequestedBatchName)
	assert.False(t, a.SeatsAvailable, "Batch2 is full")
	assert.Equal(t, 0, a.SeatsRemaining)

	b := list[1]
	assert.True(t, b.SeatsAvailable, "Batch1 has one seat left")
	assert.Equal(t, 1, b.SeatsRemaining)

	assert.Equal(t, []string{"B"}, a.SwapCandidateIDs)
	assert.Equal(t, []string{"A"}, b.SwapCandidateIDs)
	assert.Empty(t, list[2].SwapCandidateIDs)
}

func TestFetchAllBatchRequestsIsIdempotent(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	first, err := svc.FetchAllBatchRequests(context.Background())
	require.NoError(t, err)
	second, err := svc.FetchAllBatchRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindSwapCandidatesIsExactlyMutualExchange(t *testing.T) {
	batches := []string{"b1", "b2", "b3"}
	var all []dto.EnrichedBatchRequest
	n := 0
	for _, cur := range batches {
		for _, req := range batches {
			if cur == req {
				continue
			}
			n++
			all = append(all, dto.EnrichedBatchRequest{ID: fmt.Sprintf("r%d", n), CurrentBatchID: cur, RequestedBatchID: req, Status: models.StatusPending})
		}
	}
	for _, a := range all {
		got := FindSwapCandidates(a, all)
		for _, b := range all {
			want := a.ID != b.ID && a.CurrentBatchID == b.RequestedBatchID && a.RequestedBatchID == b.CurrentBatchID
			assert.Equal(t, want, containsRequest(got, b.ID), "%s vs %s", a.ID, b.ID)
		}
	}
}

func TestFindSwapCandidatesSkipsNonPending(t *testing.T) {
	a := dto.EnrichedBatchRequest{ID: "A", CurrentBatchID: "b1", RequestedBatchID: "b2", Status: models.StatusPending}
	b := dto.EnrichedBatchRequest{ID: "B", CurrentBatchID: "b2", RequestedBatchID: "b1", Status: models.StatusApproved}
	assert.Empty(t, FindSwapCandidates(a, []dto.EnrichedBatchRequest{a, b}))
}

func TestSwapCallsBackendAndSchedulesRefresh(t *testing.T) {
	store, dir := newFixture()
	scheduler := &schedulerStub{}
	audit := &auditStub{}
	svc := NewReconcilerService(store, dir,
		WithRefreshScheduler(scheduler, 500*time.Millisecond),
		WithReconcilerAudit(audit),
		WithReconcilerMetrics(NewMetricsService()),
	)

	outcome, err := svc.Swap(adminCtx(), dto.SwapRequest{RequestID1: "A", RequestID2: "B"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeSwapped, outcome.Outcome)
	assert.Equal(t, []string{"swap:A:B"}, store.calls)
	require.Len(t, outcome.BatchRequests, 1)
	assert.Equal(t, "C", outcome.BatchRequests[0].ID)

	assert.Contains(t, dir.invalidated, models.EntityBatchChangeRequests)
	require.Len(t, scheduler.jobs, 1)
	assert.Equal(t, 500*time.Millisecond, scheduler.delays[0])
	assert.Equal(t, RefreshJobType, scheduler.jobs[0].Type)
	assert.Equal(t, "refresh:batch:admin", scheduler.jobs[0].ID)
	require.Len(t, audit.logs, 2)
	assert.Equal(t, models.AuditActionRequestSwap, audit.logs[0].Action)
	require.NotNil(t, audit.logs[0].UserID)
	assert.Equal(t, "admin-1", *audit.logs[0].UserID)
}

func TestSwapRejectsNonMutualPairWithoutBackendCall(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	_, err := svc.Swap(adminCtx(), dto.SwapRequest{RequestID1: "A", RequestID2: "C"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Swap(adminCtx(), dto.SwapRequest{RequestID1: "A", RequestID2: "A"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, store.calls)
}

func TestApproveConflictIsInformational(t *testing.T) {
	store, dir := newFixture()
	store.batchRequests[1].RequestedBatchID = "b1"
	store.actionErr = conflictErr()
	store.afterConflict = func(s *changeRequestStoreStub) {
		s.batchRequests[1].Status = models.StatusApproved
	}
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.Approve(adminCtx(), "B")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyProcessed, outcome.Outcome)
	assert.NotEmpty(t, outcome.Notice)
	assert.Equal(t, []string{"B"}, outcome.RequestIDs)
	for _, r := range outcome.BatchRequests {
		assert.NotEqual(t, "B", r.ID)
	}
	assert.Contains(t, dir.invalidated, models.EntityBatchChangeRequests)
}

func TestApproveAlreadyDecidedInViewSkipsBackend(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.Approve(adminCtx(), "D")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyProcessed, outcome.Outcome)
	assert.Empty(t, store.calls)
}

func TestSwapConflictIsInformational(t *testing.T) {
	store, dir := newFixture()
	store.actionErr = conflictErr()
	store.afterConflict = func(s *changeRequestStoreStub) {
		s.batchRequests[0].Status = models.StatusApproved
		s.batchRequests[1].Status = models.StatusApproved
	}
	scheduler := &schedulerStub{}
	svc := NewReconcilerService(store, dir, WithRefreshScheduler(scheduler, time.Second))

	outcome, err := svc.Swap(adminCtx(), dto.SwapRequest{RequestID1: "A", RequestID2: "B"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyProcessed, outcome.Outcome)
	assert.NotEmpty(t, outcome.Notice)
	assert.Equal(t, []string{"A", "B"}, outcome.RequestIDs)
	assert.Equal(t, []string{"swap:A:B"}, store.calls)

	assert.Equal(t, 2, dir.loads, "list is read again after the conflict")
	require.Len(t, outcome.BatchRequests, 1)
	assert.Equal(t, "C", outcome.BatchRequests[0].ID)
	assert.Contains(t, dir.invalidated, models.EntityBatchChangeRequests)
	assert.Empty(t, scheduler.jobs)
}

func TestSwapWithDecidedSideSkipsBackend(t *testing.T) {
	store, dir := newFixture()
	store.batchRequests[1].Status = models.StatusApproved
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.Swap(adminCtx(), dto.SwapRequest{RequestID1: "A", RequestID2: "B"})
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyProcessed, outcome.Outcome)
	assert.Equal(t, []string{"A", "B"}, outcome.RequestIDs)
	assert.Empty(t, store.calls)

	assert.Equal(t, 2, dir.loads, "list is read again for the notice")
	require.Len(t, outcome.BatchRequests, 2)
	assert.Equal(t, []string{"A", "C"}, []string{outcome.BatchRequests[0].ID, outcome.BatchRequests[1].ID})
	assert.Empty(t, outcome.BatchRequests[0].SwapCandidateIDs)
	assert.Contains(t, dir.invalidated, models.EntityBatchChangeRequests)
}

func TestApproveRequiresFreeSeat(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	_, err := svc.Approve(adminCtx(), "A")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Empty(t, store.calls)
}

func TestApproveProjectsSeatChanges(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.Approve(adminCtx(), "B")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeApproved, outcome.Outcome)
	assert.Equal(t, []string{"approve:B"}, store.calls)
	require.Len(t, outcome.BatchRequests, 2)
	// s2 moved into Batch1, which is now full; Batch2 freed a seat for A.
	assert.Equal(t, "A", outcome.BatchRequests[0].ID)
	assert.True(t, outcome.BatchRequests[0].SeatsAvailable)
	assert.Empty(t, outcome.BatchRequests[0].SwapCandidateIDs)
}

func TestRejectRejectsUnknownStatus(t *testing.T) {
	store, dir := newFixture()
	store.batchRequests[2].Status = models.RequestStatus("Cancelled")
	svc := NewReconcilerService(store, dir)

	_, err := svc.Reject(adminCtx(), "C", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = svc.Reject(adminCtx(), "missing", "")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRejectPassesReason(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.Reject(adminCtx(), "C", "  batch closing  ")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeRejected, outcome.Outcome)
	assert.Equal(t, []string{"reject:C:batch closing"}, store.calls)
	assert.Len(t, outcome.BatchRequests, 2)
}

func TestFetchAllCourseRequestsMapsAvailableBatches(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	list, err := svc.FetchAllCourseRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	cr1 := list[0]
	assert.Equal(t, "Data Science", cr1.RequestedCourseName)
	assert.Equal(t, "Web Development", cr1.CurrentCourseName)
	assert.True(t, cr1.HasAvailableBatches)
	require.Len(t, cr1.AvailableBatches, 1, "completed Batch5 is not assignable")
	assert.Equal(t, "b4", cr1.AvailableBatches[0].ID)
	assert.Equal(t, 17, cr1.AvailableBatches[0].SeatsRemaining)

	cr2 := list[1]
	assert.False(t, cr2.HasAvailableBatches, "only batch of Cloud Ops is full")
	assert.NotNil(t, cr2.AvailableBatches)
}

func TestApproveCourseRequestRequiresOpenBatch(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)

	_, err := svc.ApproveCourseRequest(adminCtx(), "CR1", "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.ApproveCourseRequest(adminCtx(), "CR1", "b5")
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Empty(t, store.calls)

	outcome, err := svc.ApproveCourseRequest(adminCtx(), "CR1", "b4")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeApproved, outcome.Outcome)
	assert.Equal(t, []string{"course-approve:CR1:b4"}, store.calls)
	require.Len(t, outcome.CourseRequests, 1)
	assert.Equal(t, "CR2", outcome.CourseRequests[0].ID)
}

func TestRejectCourseRequestConflictRefetches(t *testing.T) {
	store, dir := newFixture()
	store.actionErr = conflictErr()
	svc := NewReconcilerService(store, dir)

	outcome, err := svc.RejectCourseRequest(adminCtx(), "CR2", "full")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyProcessed, outcome.Outcome)
	assert.Len(t, outcome.CourseRequests, 2)
	assert.Contains(t, dir.invalidated, models.EntityCourseChangeRequests)
}

func TestSubmitBatchRequestRejectsDuplicatePending(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)
	ctx := ContextWithSession(context.Background(), &models.Session{UserID: "u1", Role: models.RoleStudent, Token: "t"})

	_, err := svc.SubmitBatchRequest(ctx, dto.SubmitBatchRequest{RequestedBatchID: "b3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, store.calls)
}

func TestSubmitBatchRequestPinsStudentToSession(t *testing.T) {
	store, dir := newFixture()
	store.batchRequests = nil
	audit := &auditStub{}
	svc := NewReconcilerService(store, dir, WithReconcilerAudit(audit), WithReconcilerClock(func() time.Time { return baseTime }))
	ctx := ContextWithSession(context.Background(), &models.Session{UserID: "u1", Role: models.RoleStudent, Token: "t"})

	_, err := svc.SubmitBatchRequest(ctx, dto.SubmitBatchRequest{StudentID: "s2", RequestedBatchID: "b3"})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	created, err := svc.SubmitBatchRequest(ctx, dto.SubmitBatchRequest{RequestedBatchID: "b3", Reason: "evening slot"})
	require.NoError(t, err)
	assert.Equal(t, "s1", created.StudentID)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, baseTime, created.Timestamp)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionRequestSubmit, audit.logs[0].Action)

	_, err = svc.SubmitBatchRequest(ctx, dto.SubmitBatchRequest{RequestedBatchID: "b4"})
	assert.ErrorIs(t, err, appErrors.ErrValidation, "other course needs a course change")
}

func TestSubmitCourseRequestValidatesCourse(t *testing.T) {
	store, dir := newFixture()
	store.courseRequests = nil
	svc := NewReconcilerService(store, dir)

	_, err := svc.SubmitCourseRequest(adminCtx(), dto.SubmitCourseRequest{StudentID: "s3", RequestedCourseID: "c1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SubmitCourseRequest(adminCtx(), dto.SubmitCourseRequest{StudentID: "s3", RequestedCourseID: "nope"})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	created, err := svc.SubmitCourseRequest(adminCtx(), dto.SubmitCourseRequest{StudentID: "s3", RequestedCourseID: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "new-course-request", created.ID)
	assert.Equal(t, []string{"create-course"}, store.calls)
}

func TestHandleRefreshJobInvalidatesAndWarms(t *testing.T) {
	store, dir := newFixture()
	svc := NewReconcilerService(store, dir)
	session := &models.Session{Token: "tok", Role: models.RoleAdmin}

	err := svc.HandleRefreshJob(context.Background(), jobs.Job{
		ID:      "refresh:batch:admin",
		Type:    RefreshJobType,
		Payload: refreshPayload{Kinds: batchRequestKinds, Session: session},
	})
	require.NoError(t, err)
	assert.Equal(t, batchRequestKinds, dir.invalidated)
	assert.Equal(t, 1, dir.loads)

	require.NoError(t, svc.HandleRefreshJob(context.Background(), jobs.Job{ID: "x", Payload: "garbage"}))
}
