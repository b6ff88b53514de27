package dto

import "github.com/noah-isme/school-portal-api/internal/models"

// ReportRequest captures the POST /reports/generate payload. The date
// range applies to attendance registers only.
type ReportRequest struct {
	Type     models.ReportType   `json:"type"`
	ClassID  string              `json:"classId"`
	DateFrom string              `json:"dateFrom,omitempty"`
	DateTo   string              `json:"dateTo,omitempty"`
	Format   models.ReportFormat `json:"format"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
