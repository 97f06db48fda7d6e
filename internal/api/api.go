// Package api is the local HTTP surface over the workspace core. It stands
// in for the product UI: plain function calls in, plain data structures out.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexushq/nexus-core/internal/assistant"
	"github.com/nexushq/nexus-core/internal/audit"
	"github.com/nexushq/nexus-core/internal/directory"
	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/internal/license"
	"github.com/nexushq/nexus-core/internal/session"
	"github.com/nexushq/nexus-core/internal/vault"
	"github.com/nexushq/nexus-core/internal/workspace"
	"github.com/nexushq/nexus-core/pkg/schema"
)

type Handler struct {
	Directory *directory.Directory
	Sessions  *session.Manager
	Workspace *workspace.Store
	Audit     *audit.Log
	Assistant *assistant.Service
	Bot       *assistant.Bot
	Keyring   *vault.Keyring
	Store     kvstore.Store
	Log       *zap.Logger
}

// Router wires every endpoint of the surface.
func Router(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/auth/register", h.RegisterUser)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)
		api.GET("/session", h.CurrentSession)

		api.GET("/users", h.ListUsers)
		api.PUT("/users/:id", h.UpdateUser)
		api.POST("/users/:id/upgrade", h.UpgradePlan)

		api.GET("/channels", h.ListChannels)
		api.POST("/channels", h.CreateChannel)
		api.POST("/channels/:id/messages", h.SendMessage)
		api.POST("/channels/:id/notifications", h.ToggleNotifications)
		api.POST("/channels/:id/members", h.AddMember)

		api.GET("/contacts", h.ListContacts)
		api.POST("/contacts", h.CreateContact)
		api.PUT("/contacts/:id", h.UpdateContact)

		api.GET("/audit", h.AuditTrail)

		api.PUT("/settings/apikey", h.SaveAPIKey)
		api.GET("/settings/bot", h.BotConfig)
		api.PUT("/settings/bot", h.SaveBotConfig)

		api.POST("/assistant/channels/:id/summary", h.SummarizeChannel)
		api.POST("/assistant/insight", h.BusinessInsight)
		api.POST("/assistant/contacts/:id/email", h.DraftEmail)
		api.POST("/assistant/contacts/:id/health", h.DealHealth)
		api.POST("/assistant/contacts/:id/summary", h.LeadSummary)
		api.POST("/assistant/bot-audit", h.RunBotAudit)
	}
	return r
}

// actor resolves the session user; every mutating endpoint requires one.
func (h *Handler) actor(c *gin.Context) (schema.User, bool) {
	u, ok, err := h.Sessions.Current()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return schema.User{}, false
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return schema.User{}, false
	}
	return u, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, directory.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, workspace.ErrChannelNotFound), errors.Is(err, workspace.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, assistant.ErrExternalService), errors.Is(err, assistant.ErrNoAPIKey):
		// Provider failures surface as displayable text; workspace state is
		// untouched.
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI error: " + err.Error()})
	default:
		h.Log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// RegisterUser creates a directory entry and logs the new user in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.Directory.Register(schema.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Avatar:   input.Avatar,
		Status:   schema.PresenceOnline,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.Directory.Login(input.Email, input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Workspace.Load(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Clear(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) CurrentSession(c *gin.Context) {
	u, ok, err := h.Sessions.Current()
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Directory.All()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var u schema.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u.ID = c.Param("id")
	if err := h.Directory.UpdateByID(u); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpgradePlan redeems an activation code and, when valid, flips the user's
// plan to premium through the directory.
func (h *Handler) UpgradePlan(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !license.Redeem(input.Code) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid activation code"})
		return
	}

	target := actor
	if id := c.Param("id"); id != target.ID {
		users, err := h.Directory.All()
		if err != nil {
			h.fail(c, err)
			return
		}
		found := false
		for _, u := range users {
			if u.ID == id {
				target, found = u, true
				break
			}
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
	}

	target.Plan = schema.PlanPremium
	if err := h.Directory.UpdateByID(target); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}
