package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/student-mgmt-api/internal/models"
	"github.com/campuskit/student-mgmt-api/internal/service"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
	"github.com/campuskit/student-mgmt-api/pkg/response"
)

type adminService interface {
	List(ctx context.Context) ([]models.Admin, error)
	Register(ctx context.Context, req service.RegisterAdminRequest, caller *models.JWTClaims) (*models.Admin, error)
}

// AdminHandler exposes administrator endpoints.
type AdminHandler struct {
	admins adminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins adminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// List godoc
// @Summary List administrators
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, nil)
}

// Register godoc
// @Summary Register administrator
// @Description Create an admin account. Open only while no admin exists; afterwards requires an admin caller.
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.RegisterAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admins/register [post]
func (h *AdminHandler) Register(c *gin.Context) {
	var req service.RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}

	admin, err := h.admins.Register(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, admin)
}
