package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
	"github.com/campuskit/student-mgmt-api/pkg/export"
)

type transcriptSource interface {
	Report(ctx context.Context, studentID string) ([]models.GradeReportEntry, error)
	CGPA(ctx context.Context, studentID string) (*models.CGPAResult, error)
}

type transcriptStudentSource interface {
	Get(ctx context.Context, id string) (*models.Student, error)
}

// TranscriptFile is a rendered transcript ready to hand to the client.
type TranscriptFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders student transcripts as downloadable files.
type ExportService struct {
	grades   transcriptSource
	students transcriptStudentSource
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(grades transcriptSource, students transcriptStudentSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grades:   grades,
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Transcript renders a student's full grade report plus CGPA in the
// requested format. Supported formats are "csv" and "pdf".
func (s *ExportService) Transcript(ctx context.Context, studentID, format string) (*TranscriptFile, error) {
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	report, err := s.grades.Report(ctx, studentID)
	if err != nil {
		return nil, err
	}
	cgpa, err := s.grades.CGPA(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Course", "Percent", "Letter"},
		Rows:    make([]map[string]string, 0, len(report)),
	}
	for _, entry := range report {
		row := map[string]string{"Course": entry.CourseName, "Percent": "-", "Letter": "-"}
		if entry.PercentGrade != nil {
			row["Percent"] = strconv.FormatFloat(*entry.PercentGrade, 'f', 2, 64)
		}
		if entry.LetterGrade != nil {
			row["Letter"] = *entry.LetterGrade
		}
		data.Rows = append(data.Rows, row)
	}
	if cgpa.CGPA != nil {
		data.Summary = append(data.Summary, fmt.Sprintf("CGPA: %.2f", *cgpa.CGPA))
	} else {
		data.Summary = append(data.Summary, "CGPA: N/A")
	}
	data.Summary = append(data.Summary, fmt.Sprintf("Courses: %d enrolled, %d graded", cgpa.TotalCourses, cgpa.GradedCourses))

	file := &TranscriptFile{}
	switch format {
	case "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
		}
		file.Content = content
		file.ContentType = "text/csv"
		file.FileName = fmt.Sprintf("transcript_%s.csv", student.Username)
	case "pdf":
		title := fmt.Sprintf("Transcript for %s", student.FullName)
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
		}
		file.Content = content
		file.ContentType = "application/pdf"
		file.FileName = fmt.Sprintf("transcript_%s.pdf", student.Username)
	}

	s.logger.Info("transcript exported",
		zap.String("student_id", studentID),
		zap.String("format", format))
	return file, nil
}
