package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/student-mgmt-api/internal/models"
	"github.com/campuskit/student-mgmt-api/internal/service"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
	"github.com/campuskit/student-mgmt-api/pkg/response"
)

type gradeService interface {
	Post(ctx context.Context, studentID string, req service.PostGradeRequest) (*models.Grade, error)
	Update(ctx context.Context, gradeID string, req service.UpdateGradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, gradeID string) error
	Report(ctx context.Context, studentID string) ([]models.GradeReportEntry, error)
	CGPA(ctx context.Context, studentID string) (*models.CGPAResult, error)
}

type transcriptService interface {
	Transcript(ctx context.Context, studentID, format string) (*service.TranscriptFile, error)
}

// GradeHandler exposes grade, report and transcript endpoints.
type GradeHandler struct {
	grades  gradeService
	exports transcriptService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades gradeService, exports transcriptService) *GradeHandler {
	return &GradeHandler{grades: grades, exports: exports}
}

// Post godoc
// @Summary Record a grade
// @Description Record a percent grade for an enrolled student. Posting again for the same course overwrites.
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.PostGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/grades [post]
func (h *GradeHandler) Post(c *gin.Context) {
	var req service.PostGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := h.grades.Post(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update godoc
// @Summary Update a grade
// @Description Rewrite the percent score of a grade. The letter is rederived.
// @Tags Grades
// @Accept json
// @Produce json
// @Param gradeId path string true "Grade ID"
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades/{gradeId} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), c.Param("gradeId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Grades
// @Produce json
// @Param gradeId path string true "Grade ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /grades/{gradeId} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.Delete(c.Request.Context(), c.Param("gradeId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Report godoc
// @Summary Student grade report
// @Description Every enrolled course with its grade, null when ungraded
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/grades [get]
func (h *GradeHandler) Report(c *gin.Context) {
	report, err := h.grades.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// CGPA godoc
// @Summary Student cumulative GPA
// @Description Average grade points over all enrolled courses, null with no enrollments
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/cgpa [get]
func (h *GradeHandler) CGPA(c *gin.Context) {
	result, err := h.grades.CGPA(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Transcript godoc
// @Summary Download student transcript
// @Description Grade report plus CGPA rendered as csv or pdf
// @Tags Grades
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *GradeHandler) Transcript(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	file, err := h.exports.Transcript(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
