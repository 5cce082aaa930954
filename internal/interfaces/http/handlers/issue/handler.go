package issue

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/application/issue/usecases"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

type Handler struct {
	createIssueUC      usecases.CreateIssueExecutor
	fetchIssuesUC      usecases.FetchIssuesExecutor
	getIssueUC         usecases.GetIssueExecutor
	updateIssueUC      usecases.UpdateIssueExecutor
	trackIssueUC       usecases.TrackIssueExecutor
	addIssueUpdateUC   usecases.AddIssueUpdateExecutor
	listIssueUpdatesUC usecases.ListIssueUpdatesExecutor
	dashboardStatsUC   usecases.GetDashboardStatsExecutor
	presignUC          usecases.PresignAttachmentExecutor
	logger             logger.Interface
}

func NewHandler(
	createIssueUC usecases.CreateIssueExecutor,
	fetchIssuesUC usecases.FetchIssuesExecutor,
	getIssueUC usecases.GetIssueExecutor,
	updateIssueUC usecases.UpdateIssueExecutor,
	trackIssueUC usecases.TrackIssueExecutor,
	addIssueUpdateUC usecases.AddIssueUpdateExecutor,
	listIssueUpdatesUC usecases.ListIssueUpdatesExecutor,
	dashboardStatsUC usecases.GetDashboardStatsExecutor,
	presignUC usecases.PresignAttachmentExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createIssueUC:      createIssueUC,
		fetchIssuesUC:      fetchIssuesUC,
		getIssueUC:         getIssueUC,
		updateIssueUC:      updateIssueUC,
		trackIssueUC:       trackIssueUC,
		addIssueUpdateUC:   addIssueUpdateUC,
		listIssueUpdatesUC: listIssueUpdatesUC,
		dashboardStatsUC:   dashboardStatsUC,
		presignUC:          presignUC,
		logger:             logger,
	}
}

// CreateIssue handles POST /issues
//
//	@Summary		Submit an issue
//	@Description	Anyone may submit. The response carries the tracking token, which is never shown again.
//	@Tags			Issues
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateIssueRequest	true	"Issue"
//	@Success		201		{object}	utils.APIResponse{data=CreateIssueResponse}
//	@Failure		400		{object}	utils.APIResponse
//	@Failure		429		{object}	utils.APIResponse
//	@Router			/issues [post]
func (h *Handler) CreateIssue(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create issue", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createIssueUC.Execute(c.Request.Context(), req.ToCommand(middleware.GetPrincipal(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, CreateIssueResponse{
		ID:             result.Issue.ID,
		AnonymousToken: result.Token,
		Status:         result.Issue.Status,
		TrackPath:      "/track/" + result.Token,
	}, "Issue submitted successfully")
}

// ListIssues handles GET /issues
//
//	@Summary	List issues
//	@Tags		Issues
//	@Produce	json
//	@Param		status			query		string	false	"open, in_progress, resolved or closed"
//	@Param		severity		query		string	false	"low, medium, high or critical"
//	@Param		category_id		query		string	false	"Category"
//	@Param		department_id	query		string	false	"Department"
//	@Param		assigned_to		query		string	false	"Assignee profile"
//	@Success	200				{object}	utils.APIResponse{data=utils.ListResponse}
//	@Security	BearerAuth
//	@Router		/issues [get]
func (h *Handler) ListIssues(c *gin.Context) {
	query := usecases.FetchIssuesQuery{
		Status:       c.Query("status"),
		Severity:     c.Query("severity"),
		CategoryID:   c.Query("category_id"),
		DepartmentID: c.Query("department_id"),
		AssignedTo:   c.Query("assigned_to"),
	}

	issues, err := h.fetchIssuesUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, issues, len(issues))
}

// GetIssue handles GET /issues/:id
func (h *Handler) GetIssue(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getIssueUC.Execute(c.Request.Context(), usecases.GetIssueQuery{
		IssueID:      id,
		Capabilities: middleware.GetCapabilities(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateIssue handles PATCH /issues/:id
//
//	@Summary	Triage an issue
//	@Tags		Issues
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Issue ID"
//	@Param		request	body		UpdateIssueRequest	true	"Fields to change"
//	@Success	200		{object}	utils.APIResponse{data=dto.IssueDTO}
//	@Failure	403		{object}	utils.APIResponse
//	@Failure	404		{object}	utils.APIResponse
//	@Security	BearerAuth
//	@Router		/issues/{id} [patch]
func (h *Handler) UpdateIssue(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update issue", "issue_id", id, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateIssueUC.Execute(c.Request.Context(), usecases.UpdateIssueCommand{
		IssueID:      id,
		Patch:        req.ToPatch(),
		Capabilities: middleware.GetCapabilities(c),
		ActorID:      middleware.GetPrincipal(c).UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Issue updated successfully", result)
}

// AddIssueUpdate handles POST /issues/:id/updates
func (h *Handler) AddIssueUpdate(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddIssueUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addIssueUpdateUC.Execute(c.Request.Context(), usecases.AddIssueUpdateCommand{
		IssueID:      id,
		UpdateType:   req.UpdateType,
		Content:      req.Content,
		IsPublic:     req.IsPublic,
		Capabilities: middleware.GetCapabilities(c),
		ActorID:      middleware.GetPrincipal(c).UserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Update posted successfully")
}

// ListIssueUpdates handles GET /issues/:id/updates
func (h *Handler) ListIssueUpdates(c *gin.Context) {
	id, err := parseIssueID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	updates, err := h.listIssueUpdatesUC.Execute(c.Request.Context(), usecases.ListIssueUpdatesQuery{
		IssueID:      id,
		Capabilities: middleware.GetCapabilities(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, updates, len(updates))
}

// TrackIssue handles GET /track/:token
//
//	@Summary		Track an issue by token
//	@Description	Returns the public view of the issue. Unknown and expired tokens both answer 404.
//	@Tags			Tracking
//	@Produce		json
//	@Param			token	path		string	true	"Tracking token"
//	@Success		200		{object}	utils.APIResponse{data=dto.TrackedIssueDTO}
//	@Failure		404		{object}	utils.APIResponse
//	@Failure		429		{object}	utils.APIResponse
//	@Router			/track/{token} [get]
func (h *Handler) TrackIssue(c *gin.Context) {
	result, err := h.trackIssueUC.Execute(c.Request.Context(), usecases.TrackIssueQuery{Token: c.Param("token")})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetDashboardStats handles GET /dashboard/stats
func (h *Handler) GetDashboardStats(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("days must be a positive integer", "days"))
			return
		}
		days = n
	}

	stats, err := h.dashboardStatsUC.Execute(c.Request.Context(), usecases.GetDashboardStatsQuery{
		Capabilities: middleware.GetCapabilities(c),
		Days:         days,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// PresignUpload handles POST /attachments/presign
func (h *Handler) PresignUpload(c *gin.Context) {
	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.presignUC.Upload(c.Request.Context(), usecases.PresignAttachmentUploadCommand{ContentType: req.ContentType})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// PresignDownload handles GET /attachments/download?key=
func (h *Handler) PresignDownload(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("key is required", "key"))
		return
	}

	result, err := h.presignUC.Download(c.Request.Context(), usecases.PresignAttachmentDownloadQuery{
		Key:          key,
		Capabilities: middleware.GetCapabilities(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func parseIssueID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", errors.NewValidationError("issue ID is required")
	}
	return id, nil
}
