package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexushq/nexus-core/internal/kvstore"
	"github.com/nexushq/nexus-core/pkg/schema"
)

func (h *Handler) ListChannels(c *gin.Context) {
	c.JSON(http.StatusOK, h.Workspace.Channels())
}

func (h *Handler) CreateChannel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input struct {
		Name    string `json:"name" binding:"required"`
		Private bool   `json:"private"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	channelType := schema.ChannelPublic
	if input.Private {
		channelType = schema.ChannelPrivate
	}
	ch, err := h.Workspace.CreateChannel(input.Name, channelType, actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) SendMessage(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	channelID := c.Param("id")
	msg, err := h.Workspace.SendMessage(channelID, actor.ID, input.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Bot != nil {
		h.Bot.Observe(channelID, input.Content, actor)
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) ToggleNotifications(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	enabled, err := h.Workspace.ToggleNotifications(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notificationsEnabled": enabled})
}

func (h *Handler) AddMember(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var input struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Workspace.AddMember(c.Param("id"), input.UserID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "member added"})
}

func (h *Handler) ListContacts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Workspace.Contacts())
}

func (h *Handler) CreateContact(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var contact schema.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if contact.Stage != "" && !contact.Stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stage"})
		return
	}
	if contact.Value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be non-negative"})
		return
	}
	created, err := h.Workspace.AddContact(contact, actor.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateContact(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var contact schema.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact.ID = c.Param("id")
	if !contact.Stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stage"})
		return
	}
	updated, err := h.Workspace.UpdateContact(contact, actor)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) AuditTrail(c *gin.Context) {
	entries, err := h.Audit.All()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) SaveAPIKey(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var input struct {
		APIKey string `json:"apiKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Keyring.SaveAPIKey(input.APIKey); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *Handler) BotConfig(c *gin.Context) {
	var cfg schema.BotConfig
	ok, err := h.Store.Get(kvstore.KeyBotConfig, &cfg)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "bot not configured"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SaveBotConfig(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var cfg schema.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch cfg.Role {
	case schema.BotAuditor, schema.BotAssistant, schema.BotManager:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bot role"})
		return
	}
	if err := h.Store.Put(kvstore.KeyBotConfig, cfg); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) SummarizeChannel(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	id := c.Param("id")
	for _, ch := range h.Workspace.Channels() {
		if ch.ID == id {
			text, err := h.Assistant.SummarizeChannel(c.Request.Context(), ch)
			if err != nil {
				h.fail(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"text": text})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
}

func (h *Handler) BusinessInsight(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	text, err := h.Assistant.BusinessInsight(c.Request.Context(), h.Workspace.Contacts())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) DraftEmail(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var input struct {
		Objective string `json:"objective" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, found := h.findContact(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	text, err := h.Assistant.DraftEmail(c.Request.Context(), contact, input.Objective)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) DealHealth(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	contact, found := h.findContact(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	text, err := h.Assistant.AnalyzeDealHealth(c.Request.Context(), contact)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) LeadSummary(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	contact, found := h.findContact(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	text, err := h.Assistant.SummarizeLead(c.Request.Context(), contact)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) RunBotAudit(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	var cfg schema.BotConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	text, err := h.Assistant.BotAudit(c.Request.Context(), cfg, h.Workspace.Contacts(), h.Workspace.Channels())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) findContact(id string) (schema.Contact, bool) {
	for _, ct := range h.Workspace.Contacts() {
		if ct.ID == id {
			return ct, true
		}
	}
	return schema.Contact{}, false
}
