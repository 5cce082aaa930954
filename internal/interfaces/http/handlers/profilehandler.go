package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/application/profile/usecases"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

type ProfileHandler struct {
	getProfileUC    usecases.GetProfileExecutor
	updateProfileUC usecases.UpdateProfileExecutor
	changeRoleUC    usecases.ChangeRoleExecutor
	logger          logger.Interface
}

func NewProfileHandler(
	getProfileUC usecases.GetProfileExecutor,
	updateProfileUC usecases.UpdateProfileExecutor,
	changeRoleUC usecases.ChangeRoleExecutor,
	logger logger.Interface,
) *ProfileHandler {
	return &ProfileHandler{
		getProfileUC:    getProfileUC,
		updateProfileUC: updateProfileUC,
		changeRoleUC:    changeRoleUC,
		logger:          logger,
	}
}

type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty" binding:"omitempty,min=1,max=100"`
	DepartmentID *string `json:"department_id,omitempty"`
	ManagerID    *string `json:"manager_id,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty" binding:"omitempty,max=50"`
	JobTitle     *string `json:"job_title,omitempty" binding:"omitempty,max=100"`
	Phone        *string `json:"phone,omitempty" binding:"omitempty,max=30"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	result, err := h.getProfileUC.Execute(c.Request.Context(), usecases.GetProfileQuery{
		UserID: middleware.GetPrincipal(c).UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateProfile handles PATCH /profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateProfileUC.Execute(c.Request.Context(), usecases.UpdateProfileCommand{
		UserID:       middleware.GetPrincipal(c).UserID,
		FullName:     req.FullName,
		DepartmentID: req.DepartmentID,
		ManagerID:    req.ManagerID,
		EmployeeID:   req.EmployeeID,
		JobTitle:     req.JobTitle,
		Phone:        req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", result)
}

// ChangeRole handles PATCH /admin/profiles/:id/role
func (h *ProfileHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.changeRoleUC.Execute(c.Request.Context(), usecases.ChangeRoleCommand{
		TargetID:     c.Param("id"),
		Role:         req.Role,
		ActorID:      middleware.GetPrincipal(c).UserID,
		Capabilities: middleware.GetCapabilities(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Role updated successfully", result)
}
