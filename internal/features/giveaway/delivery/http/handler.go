package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/service"
)

// Handler is the thin HTTP surface over the giveaway services. It only maps
// requests to service calls and renders their results; there is no domain
// logic here.
type Handler struct {
	giveaways service.GiveawayService
	winners   *service.WinnerService
}

func NewHandler(giveaways service.GiveawayService, winners *service.WinnerService) *Handler {
	return &Handler{giveaways: giveaways, winners: winners}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	giveaways := rg.Group("/giveaways")
	{
		giveaways.POST("", h.create)
		giveaways.GET("", h.listActive)
		giveaways.GET("/:id", h.get)
		giveaways.DELETE("/:id", h.remove)
		giveaways.POST("/:id/enter", h.enter)
		giveaways.POST("/:id/leave", h.leave)
		giveaways.POST("/:id/cancel", h.cancel)
		giveaways.POST("/:id/reroll", h.reroll)
	}
}

type createRequest struct {
	GuildID        int64      `json:"guild_id" binding:"required"`
	ChannelID      int64      `json:"channel_id" binding:"required"`
	Prize          string     `json:"prize" binding:"required"`
	Duration       string     `json:"duration" binding:"required"`
	CreatedBy      int64      `json:"created_by" binding:"required"`
	WinnerCount    int        `json:"winner_count"`
	RequiredRoleID *int64     `json:"required_role_id,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
}

type giveawayResponse struct {
	ID             int64                 `json:"id"`
	GuildID        int64                 `json:"guild_id"`
	ChannelID      int64                 `json:"channel_id"`
	MessageID      *int64                `json:"message_id,omitempty"`
	Prize          string                `json:"prize"`
	WinnerCount    int                   `json:"winner_count"`
	RequiredRoleID *int64                `json:"required_role_id,omitempty"`
	CreatedBy      int64                 `json:"created_by"`
	CreatedAt      time.Time             `json:"created_at"`
	ScheduledStart *time.Time            `json:"scheduled_start,omitempty"`
	EndsAt         time.Time             `json:"ends_at"`
	Status         models.GiveawayStatus `json:"status"`
	EntryCount     int                   `json:"entry_count"`
	Winners        []int64               `json:"winners,omitempty"`
}

func toResponse(g *models.Giveaway) giveawayResponse {
	return giveawayResponse{
		ID:             g.ID,
		GuildID:        g.GuildID,
		ChannelID:      g.ChannelID,
		MessageID:      g.MessageID,
		Prize:          g.Prize,
		WinnerCount:    g.WinnerCount,
		RequiredRoleID: g.RequiredRoleID,
		CreatedBy:      g.CreatedBy,
		CreatedAt:      g.CreatedAt,
		ScheduledStart: g.ScheduledStart,
		EndsAt:         g.EndsAt,
		Status:         g.Status(),
		EntryCount:     g.EntryCount(),
		Winners:        g.Winners,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seconds, ok := service.ParseDuration(req.Duration)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	giveaway, err := h.giveaways.Create(c.Request.Context(), &models.GiveawayCreate{
		GuildID:         req.GuildID,
		ChannelID:       req.ChannelID,
		Prize:           req.Prize,
		DurationSeconds: seconds,
		CreatedBy:       req.CreatedBy,
		WinnerCount:     req.WinnerCount,
		RequiredRoleID:  req.RequiredRoleID,
		ScheduledStart:  req.ScheduledStart,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toResponse(giveaway))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	giveaway, err := h.giveaways.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "giveaway not found"})
		return
	}

	c.JSON(http.StatusOK, toResponse(giveaway))
}

func (h *Handler) listActive(c *gin.Context) {
	var guildID int64
	if raw := c.Query("guild_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guild_id"})
			return
		}
		guildID = parsed
	}

	giveaways, err := h.giveaways.GetActive(c.Request.Context(), guildID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list giveaways"})
		return
	}

	out := make([]giveawayResponse, 0, len(giveaways))
	for _, g := range giveaways {
		out = append(out, toResponse(g))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.giveaways.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete giveaway"})
		return
	}

	c.Status(http.StatusNoContent)
}

type enterRequest struct {
	UserID  int64   `json:"user_id" binding:"required"`
	RoleIDs []int64 `json:"role_ids"`
}

func (h *Handler) enter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req enterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success, message := h.giveaways.Enter(c.Request.Context(), id, req.UserID, req.RoleIDs)
	c.JSON(statusFor(success), gin.H{"success": success, "message": message})
}

type leaveRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

func (h *Handler) leave(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	success, message := h.giveaways.Leave(c.Request.Context(), id, req.UserID)
	c.JSON(statusFor(success), gin.H{"success": success, "message": message})
}

func (h *Handler) cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	success, message := h.giveaways.Cancel(c.Request.Context(), id)
	c.JSON(statusFor(success), gin.H{"success": success, "message": message})
}

type rerollRequest struct {
	Count           int     `json:"count"`
	ValidUserIDs    []int64 `json:"valid_user_ids,omitempty"`
	ExcludePrevious *bool   `json:"exclude_previous,omitempty"`
}

func (h *Handler) reroll(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req rerollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	giveaway, err := h.giveaways.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "giveaway not found"})
		return
	}
	if !giveaway.IsEnded() {
		c.JSON(http.StatusConflict, gin.H{"error": "giveaway has not ended yet"})
		return
	}

	excludePrevious := true
	if req.ExcludePrevious != nil {
		excludePrevious = *req.ExcludePrevious
	}

	winners, message, err := h.winners.RerollWinners(c.Request.Context(), giveaway, req.Count, req.ValidUserIDs, excludePrevious)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reroll winners"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": len(winners) > 0,
		"message": message,
		"winners": winners,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid giveaway id"})
		return 0, false
	}
	return id, true
}

func statusFor(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusBadRequest
}
