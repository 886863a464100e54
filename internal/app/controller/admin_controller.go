package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/app/model"
	"github.com/jobnest/jobnest-backend/internal/app/repository"
	"github.com/jobnest/jobnest-backend/internal/app/service"
	apperrors "github.com/jobnest/jobnest-backend/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type AdminController struct {
	userService     service.UserService
	documentService service.DocumentService
}

func NewAdminController(userService service.UserService, documentService service.DocumentService) *AdminController {
	return &AdminController{
		userService:     userService,
		documentService: documentService,
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListUsers lists identities, optionally filtered by role
// GET /api/v1/admin/users?role=&page=&page_size=
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	users, total, err := ctrl.userService.List(c.Request.Context(), repository.UserFilter{
		Role:   model.UserRole(c.Query("role")),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}

	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"users":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UpdateRole changes the role of another user
// PUT /api/v1/admin/users/:id/role
func (ctrl *AdminController) UpdateRole(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Role is required")
		return
	}

	user, err := ctrl.userService.UpdateRole(c.Request.Context(), actorID, targetID, model.UserRole(req.Role))
	if err != nil {
		respondServiceError(c, err, "update user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// DeactivateUser disables another user's account
// POST /api/v1/admin/users/:id/deactivate
func (ctrl *AdminController) DeactivateUser(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Deactivate(c.Request.Context(), actorID, targetID); err != nil {
		respondServiceError(c, err, "deactivate user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// ListEmployerDocuments lists the documents of any employer
// GET /api/v1/admin/employers/:id/documents
func (ctrl *AdminController) ListEmployerDocuments(c *gin.Context) {
	ownerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	docs, err := ctrl.documentService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}
