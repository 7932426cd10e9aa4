package handler

import (
	"net/http"

	"pulse-node/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type connectRequest struct {
	Login    int64  `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Server   string `json:"server" binding:"required"`
}

// ConnectMT godoc
// @Summary      Connect to an MT5 account
// @Description  Initializes the local terminal and logs into the account
// @Tags         mt5
// @Accept       json
// @Produce      json
// @Param        body  body      connectRequest  true  "Account credentials"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/mt/connect [post]
func (h *Handler) ConnectMT(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "login, password and server are required"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.mt-connect")
	defer span.End()
	span.SetAttributes(attribute.Int64("mt5.login", req.Login), attribute.String("mt5.server", req.Server))

	creds := domain.Credentials{Login: req.Login, Password: req.Password, Server: req.Server}
	if err := h.bridge.Connect(ctx, creds); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	var account any = gin.H{}
	if info := h.bridge.AccountInfo(ctx); info != nil {
		account = info
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Success",
		"account": account,
	})
}

// DisconnectMT godoc
// @Summary      Disconnect from MT5
// @Tags         mt5
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/mt/disconnect [post]
func (h *Handler) DisconnectMT(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.mt-disconnect")
	defer span.End()

	ok := h.bridge.Disconnect(ctx)
	status := "success"
	if !ok {
		status = "error"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "success": ok})
}

// GetMTPositions godoc
// @Summary      Open MT5 positions with account totals
// @Tags         mt5
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/mt/positions [get]
func (h *Handler) GetMTPositions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.mt-positions")
	defer span.End()

	positions := h.bridge.Positions(ctx)
	totals := domain.TotalsOf(h.bridge.AccountInfo(ctx))
	span.SetAttributes(attribute.Int("mt5.positions", len(positions)))

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"positions": positions,
		"balance":   totals.Balance,
		"equity":    totals.Equity,
		"profit":    totals.Profit,
	})
}
