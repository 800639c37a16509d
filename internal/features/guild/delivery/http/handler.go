package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	giveawaysvc "giveaway-bot-backend/internal/features/giveaway/service"
	"giveaway-bot-backend/internal/features/guild/service"
)

type Handler struct {
	guilds    service.GuildService
	giveaways giveawaysvc.GiveawayService
}

func NewHandler(guilds service.GuildService, giveaways giveawaysvc.GiveawayService) *Handler {
	return &Handler{guilds: guilds, giveaways: giveaways}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	guilds := rg.Group("/guilds/:guildID")
	{
		guilds.GET("/config", h.getConfig)
		guilds.POST("/admin-roles", h.addAdminRole)
		guilds.DELETE("/admin-roles/:roleID", h.removeAdminRole)
		guilds.GET("/users/:userID/entries", h.userEntries)
	}
}

func (h *Handler) getConfig(c *gin.Context) {
	guildID, ok := parseParam(c, "guildID")
	if !ok {
		return
	}

	cfg, err := h.guilds.GetConfig(c.Request.Context(), guildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guild config"})
		return
	}

	c.JSON(http.StatusOK, cfg)
}

type adminRoleRequest struct {
	RoleID int64 `json:"role_id" binding:"required"`
}

func (h *Handler) addAdminRole(c *gin.Context) {
	guildID, ok := parseParam(c, "guildID")
	if !ok {
		return
	}

	var req adminRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success, message := h.guilds.AddAdminRole(c.Request.Context(), guildID, req.RoleID)
	status := http.StatusOK
	if !success {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": success, "message": message})
}

func (h *Handler) removeAdminRole(c *gin.Context) {
	guildID, ok := parseParam(c, "guildID")
	if !ok {
		return
	}
	roleID, ok := parseParam(c, "roleID")
	if !ok {
		return
	}

	success, message := h.guilds.RemoveAdminRole(c.Request.Context(), guildID, roleID)
	status := http.StatusOK
	if !success {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": success, "message": message})
}

func (h *Handler) userEntries(c *gin.Context) {
	guildID, ok := parseParam(c, "guildID")
	if !ok {
		return
	}
	userID, ok := parseParam(c, "userID")
	if !ok {
		return
	}

	giveaways, err := h.giveaways.GetUserEntries(c.Request.Context(), guildID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load entries"})
		return
	}

	ids := make([]int64, 0, len(giveaways))
	for _, g := range giveaways {
		ids = append(ids, g.ID)
	}
	c.JSON(http.StatusOK, gin.H{"giveaway_ids": ids})
}

func parseParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
