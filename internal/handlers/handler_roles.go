package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/SscSPs/smb_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

type roleHandler struct {
	accessService portssvc.AccessSvc
}

func registerRoleRoutes(rg *gin.RouterGroup, accessService portssvc.AccessSvc) {
	h := &roleHandler{accessService: accessService}
	rg.PUT("/roles/:role/permissions", h.setRolePermissions)
}

// setRolePermissions godoc
// @Summary Replace the permissions of a role
// @Description Owner only. The owner role itself cannot be edited.
// @Tags roles
// @Accept  json
// @Param   role path string true "Role name"
// @Param   permissions body dto.SetRolePermissionsRequest true "Permission keys"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to update role permissions"
// @Security BearerAuth
// @Router /roles/{role}/permissions [put]
func (h *roleHandler) setRolePermissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	role := c.Param("role")

	var req dto.SetRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRolePermissions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.accessService.SetRolePermissions(c.Request.Context(), actor, role, req.Permissions); err != nil {
		respondError(c, err, "Failed to update role permissions")
		return
	}

	logger.Info("Role permissions replaced", slog.String("role", role), slog.Int("count", len(req.Permissions)))
	c.Status(http.StatusNoContent)
}
