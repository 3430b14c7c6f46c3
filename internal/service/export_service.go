package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/models"
	appErrors "github.com/noah-isme/campus-portal/pkg/errors"
	"github.com/noah-isme/campus-portal/pkg/export"
	"github.com/noah-isme/campus-portal/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type exportSource interface {
	FetchAllBatchRequests(ctx context.Context) ([]dto.EnrichedBatchRequest, error)
	FetchAllCourseRequests(ctx context.Context) ([]dto.EnrichedCourseRequest, error)
}

type resultSource interface {
	Results(ctx context.Context) ([]models.Result, error)
	Students(ctx context.Context) ([]models.Student, error)
	Users(ctx context.Context) ([]models.User, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders pending requests and results as CSV or PDF and
// hands out signed download links.
type ExportService struct {
	requests  exportSource
	results   resultSource
	storage   fileStorage
	csv       renderer
	pdf       renderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(requests exportSource, results resultSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		requests:  requests,
		results:   results,
		storage:   files,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		validator: validator.New(),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate renders the requested dataset and stores it.
func (s *ExportService) Generate(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	dataset, err := s.buildDataset(ctx, req)
	if err != nil {
		return nil, err
	}

	r := s.csv
	if req.Format == dto.FormatPDF {
		r = s.pdf
	}
	payload, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(s.buildFilename(req), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Sign(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("export generated", zap.String("export_id", id), zap.String("dataset", req.Dataset), zap.String("format", req.Format), zap.Int("rows", len(dataset.Rows)))
	return &dto.ExportView{
		ID:        id,
		Dataset:   req.Dataset,
		Format:    req.Format,
		Rows:      len(dataset.Rows),
		URL:       prefix + "/exports/download?token=" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a download token and opens the file it grants.
func (s *ExportService) Resolve(token string) (*storage.DownloadGrant, *os.File, error) {
	grant, err := s.signer.Verify(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	f, err := s.storage.Open(grant.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	return grant, f, nil
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(req dto.CreateExportRequest) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	scope := "all"
	if req.BatchID != "" {
		scope = sanitizeFilename(req.BatchID)
	}
	return fmt.Sprintf("%s_%s_%s.%s", req.Dataset, scope, timestamp, req.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, req dto.CreateExportRequest) (export.Dataset, error) {
	switch req.Dataset {
	case dto.ExportBatchRequests:
		return s.batchRequestDataset(ctx)
	case dto.ExportCourseRequests:
		return s.courseRequestDataset(ctx)
	case dto.ExportResults:
		return s.resultDataset(ctx, req.BatchID)
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, "unsupported dataset "+req.Dataset)
	}
}

func (s *ExportService) batchRequestDataset(ctx context.Context) (export.Dataset, error) {
	list, err := s.requests.FetchAllBatchRequests(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, map[string]string{
			"id":        r.ID,
			"student":   r.StudentName,
			"current":   r.CurrentBatchName,
			"requested": r.RequestedBatchName,
			"seats":     yesNo(r.SeatsAvailable),
			"swap":      strings.Join(r.SwapCandidateIDs, " "),
			"submitted": formatExportTime(r.Timestamp),
		})
	}
	return export.Dataset{
		Title: "Pending batch change requests",
		Columns: []export.Column{
			{Key: "id", Label: "Request"},
			{Key: "student", Label: "Student", Weight: 2},
			{Key: "current", Label: "Current batch", Weight: 1.5},
			{Key: "requested", Label: "Requested batch", Weight: 1.5},
			{Key: "seats", Label: "Seats"},
			{Key: "swap", Label: "Swap with"},
			{Key: "submitted", Label: "Submitted", Weight: 1.5},
		},
		Rows: rows,
	}, nil
}

func (s *ExportService) courseRequestDataset(ctx context.Context) (export.Dataset, error) {
	list, err := s.requests.FetchAllCourseRequests(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(list))
	for _, r := range list {
		names := make([]string, 0, len(r.AvailableBatches))
		for _, b := range r.AvailableBatches {
			names = append(names, b.BatchName)
		}
		rows = append(rows, map[string]string{
			"id":        r.ID,
			"student":   r.StudentName,
			"current":   r.CurrentCourseName,
			"requested": r.RequestedCourseName,
			"batches":   strings.Join(names, ", "),
			"submitted": formatExportTime(r.Timestamp),
		})
	}
	return export.Dataset{
		Title: "Pending course change requests",
		Columns: []export.Column{
			{Key: "id", Label: "Request"},
			{Key: "student", Label: "Student", Weight: 2},
			{Key: "current", Label: "Current course", Weight: 1.5},
			{Key: "requested", Label: "Requested course", Weight: 1.5},
			{Key: "batches", Label: "Open batches", Weight: 2},
			{Key: "submitted", Label: "Submitted", Weight: 1.5},
		},
		Rows: rows,
	}, nil
}

func (s *ExportService) resultDataset(ctx context.Context, batchID string) (export.Dataset, error) {
	results, err := s.results.Results(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	students, err := s.results.Students(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	users, err := s.results.Users(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	studentIndex := indexStudents(students)
	userIndex := indexUsers(users)

	rows := make([]map[string]string, 0, len(results))
	for _, r := range results {
		if batchID != "" && r.BatchID != batchID {
			continue
		}
		rows = append(rows, map[string]string{
			"student": userIndex[studentIndex[r.StudentID].UserID].Name,
			"course":  r.CourseID,
			"batch":   r.BatchID,
			"marks":   strconv.FormatFloat(r.Marks, 'f', -1, 64),
			"grade":   r.Grade,
			"status":  r.Status,
		})
	}
	title := "Results"
	if batchID != "" {
		title = "Results for batch " + batchID
	}
	return export.Dataset{
		Title: title,
		Columns: []export.Column{
			{Key: "student", Label: "Student", Weight: 2},
			{Key: "course", Label: "Course"},
			{Key: "batch", Label: "Batch"},
			{Key: "marks", Label: "Marks"},
			{Key: "grade", Label: "Grade"},
			{Key: "status", Label: "Status"},
		},
		Rows: rows,
	}, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
