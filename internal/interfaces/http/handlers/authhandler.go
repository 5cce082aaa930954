package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/application/profile/usecases"
	"github.com/candor-hq/candor/internal/interfaces/http/middleware"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/utils"
)

type AuthHandler struct {
	signUpUC       usecases.SignUpExecutor
	signInUC       usecases.SignInExecutor
	refreshTokenUC usecases.RefreshTokenExecutor
	googleOAuthUC  usecases.GoogleOAuthExecutor
	capabilitiesUC usecases.GetCapabilitiesExecutor
	logger         logger.Interface
}

func NewAuthHandler(
	signUpUC usecases.SignUpExecutor,
	signInUC usecases.SignInExecutor,
	refreshTokenUC usecases.RefreshTokenExecutor,
	googleOAuthUC usecases.GoogleOAuthExecutor,
	capabilitiesUC usecases.GetCapabilitiesExecutor,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		signUpUC:       signUpUC,
		signInUC:       signInUC,
		refreshTokenUC: refreshTokenUC,
		googleOAuthUC:  googleOAuthUC,
		capabilitiesUC: capabilitiesUC,
		logger:         logger,
	}
}

type SignUpRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=8,max=72"`
	FullName     string  `json:"full_name" binding:"required,min=1,max=100"`
	DepartmentID *string `json:"department_id,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty" binding:"omitempty,max=50"`
	JobTitle     *string `json:"job_title,omitempty" binding:"omitempty,max=100"`
	Phone        *string `json:"phone,omitempty" binding:"omitempty,max=30"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// SignUp handles POST /auth/sign-up
//
//	@Summary	Create an account
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SignUpRequest	true	"Account"
//	@Success	201		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for sign up", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.signUpUC.Execute(c.Request.Context(), usecases.SignUpCommand{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		DepartmentID: req.DepartmentID,
		EmployeeID:   req.EmployeeID,
		JobTitle:     req.JobTitle,
		Phone:        req.Phone,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Account created successfully")
}

// SignIn handles POST /auth/sign-in
//
//	@Summary	Sign in with email and password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SignInRequest	true	"Credentials"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	401		{object}	utils.APIResponse
//	@Router		/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.signInUC.Execute(c.Request.Context(), usecases.SignInCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signed in successfully", result)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.refreshTokenUC.Execute(c.Request.Context(), usecases.RefreshTokenCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Capabilities handles GET /auth/capabilities. Anonymous callers get the
// anonymous capability set.
func (h *AuthHandler) Capabilities(c *gin.Context) {
	caps, err := h.capabilitiesUC.Execute(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", caps)
}

// InitiateGoogleOAuth handles GET /auth/oauth/google
func (h *AuthHandler) InitiateGoogleOAuth(c *gin.Context) {
	result, err := h.googleOAuthUC.Initiate(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if c.Query("redirect") == "true" {
		c.Redirect(http.StatusFound, result.AuthURL)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"auth_url": result.AuthURL,
		"state":    result.State,
	})
}

// HandleGoogleCallback handles GET /auth/oauth/google/callback
func (h *AuthHandler) HandleGoogleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("google returned an error", "error", errParam)
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("google sign-in was cancelled or denied"))
		return
	}

	result, err := h.googleOAuthUC.HandleCallback(c.Request.Context(), usecases.GoogleOAuthCallbackCommand{
		Code:  c.Query("code"),
		State: c.Query("state"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signed in successfully", result)
}
