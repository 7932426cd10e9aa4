package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const advisorKeySetting = "OPENAI_API_KEY"

type configUpdateRequest struct {
	Config map[string]any `json:"config" binding:"required"`
}

// GetConfig godoc
// @Summary      Local settings
// @Description  Stored settings with every *_API_KEY value masked
// @Tags         config
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/config [get]
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "config": h.settings.Masked()})
}

// UpdateConfig godoc
// @Summary      Update local settings
// @Description  Merges the given keys into the stored settings
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body      configUpdateRequest  true  "Settings to merge"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/config [post]
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"config\": {...}}"})
		return
	}

	if _, err := h.settings.Save(req.Config); err != nil {
		log.WithError(err).Error("saving local config failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save configuration"})
		return
	}
	log.WithField("keys", len(req.Config)).Info("local configuration updated")

	if _, ok := req.Config[advisorKeySetting]; ok && h.reloader != nil {
		key, _ := h.settings.Get(advisorKeySetting, true)
		h.reloader.SetAPIKey(key)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Configuration saved locally."})
}
