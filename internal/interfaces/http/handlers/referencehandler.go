package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/candor-hq/candor/internal/application/reference/usecases"
	"github.com/candor-hq/candor/internal/shared/utils"
)

// ReferenceHandler serves the department and category pick-lists.
type ReferenceHandler struct {
	listDepartmentsUC usecases.ListDepartmentsExecutor
	listCategoriesUC  usecases.ListCategoriesExecutor
}

func NewReferenceHandler(listDepartmentsUC usecases.ListDepartmentsExecutor, listCategoriesUC usecases.ListCategoriesExecutor) *ReferenceHandler {
	return &ReferenceHandler{
		listDepartmentsUC: listDepartmentsUC,
		listCategoriesUC:  listCategoriesUC,
	}
}

// ListDepartments handles GET /departments
func (h *ReferenceHandler) ListDepartments(c *gin.Context) {
	items, err := h.listDepartmentsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, items, len(items))
}

// ListCategories handles GET /categories
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	items, err := h.listCategoriesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, items, len(items))
}
