package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/srynko/teamspace/internal/middleware"
	"github.com/srynko/teamspace/internal/services"
	"github.com/srynko/teamspace/pkg/response"
	"gorm.io/gorm"
)

type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

func NewWorkspaceHandler(db *gorm.DB) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: services.NewWorkspaceService(db),
	}
}

// List returns the workspaces the authenticated user belongs to.
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "not authenticated")
		return
	}

	workspaces, err := h.workspaceService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"workspaces": workspaces})
}

// AddMember invites a user (by email) into a workspace.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "not authenticated")
		return
	}

	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.workspaceService.AddMember(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"member": member})
}
