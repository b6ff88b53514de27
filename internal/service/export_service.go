package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/export"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

type exportAttendanceRepository interface {
	ListByClassAndRange(ctx context.Context, classID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

type exportTimetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error)
}

type exportClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	attendance exportAttendanceRepository
	timetables exportTimetableRepository
	classes    exportClassRepository
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(attendance exportAttendanceRepository, timetables exportTimetableRepository, classes exportClassRepository, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		attendance: attendance,
		timetables: timetables,
		classes:    classes,
		storage:    store,
		csv:        csv,
		pdf:        pdf,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate builds the dataset for a job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	classPart := sanitizeFilename(job.Params.ClassID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), classPart, timestamp, job.Params.Format)
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

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeAttendanceRegister:
		return s.buildAttendanceRegister(ctx, job.Params)
	case models.ReportTypeClassTimetable:
		return s.buildClassTimetable(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildAttendanceRegister(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	from, err := time.Parse("2006-01-02", params.DateFrom)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("parse dateFrom: %w", err)
	}
	to, err := time.Parse("2006-01-02", params.DateTo)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("parse dateTo: %w", err)
	}

	class, err := s.classes.FindByID(ctx, params.ClassID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load class: %w", err)
	}
	rows, err := s.attendance.ListByClassAndRange(ctx, params.ClassID, from, to)
	if err != nil {
		return export.Dataset{}, "", err
	}

	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Date":    row.Date.Format("2006-01-02"),
			"Roll No": row.RollNo,
			"Student": row.StudentName,
			"Status":  string(row.Status),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Date", "Roll No", "Student", "Status"},
		Rows:    dataRows,
	}
	title := fmt.Sprintf("Attendance Register %s (%s to %s)", class.Name, params.DateFrom, params.DateTo)
	return dataset, title, nil
}

func (s *ExportService) buildClassTimetable(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	class, err := s.classes.FindByID(ctx, params.ClassID)
	if err != nil {
		return export.Dataset{}, "", fmt.Errorf("load class: %w", err)
	}
	rows, err := s.timetables.List(ctx, models.TimetableFilter{ClassID: params.ClassID})
	if err != nil {
		return export.Dataset{}, "", err
	}

	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Day":     row.Day,
			"Start":   row.StartTime,
			"End":     row.EndTime,
			"Subject": row.SubjectName,
			"Teacher": row.TeacherName,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Day", "Start", "End", "Subject", "Teacher"},
		Rows:    dataRows,
	}
	title := fmt.Sprintf("Weekly Timetable %s", class.Name)
	return dataset, title, nil
}
