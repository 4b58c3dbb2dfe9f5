package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"drive-thru/engine"
	"drive-thru/models"
	"drive-thru/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc          *services.OrderService
	staff        *services.StaffAuth
	hub          *Hub
	defaultStore string
	log          *zap.Logger
}

type startSessionRequest struct {
	StoreID  string `json:"storeId"`
	LaneID   string `json:"laneId"`
	TestMode bool   `json:"testMode"`
}

func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	if req.StoreID == "" {
		req.StoreID = h.defaultStore
	}

	sess, err := h.svc.StartSession(c.Request.Context(), req.StoreID, req.LaneID, req.TestMode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": sess.ID,
		"storeId":   sess.StoreID,
		"order":     engine.ToDisplay(sess.Order),
	})
}

func (h *Handler) Order(c *gin.Context) {
	sess, err := h.svc.Session(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  sess.Order.Status,
		"summary": engine.Summary(sess.Order, engine.SummaryShort),
		"order":   engine.ToDisplay(sess.Order),
	})
}

type commandRequest struct {
	Name      string          `json:"name" binding:"required"`
	Arguments json.RawMessage `json:"arguments"`
}

// commandArguments accepts arguments either as a JSON object or as a string
// holding one, which is how tool calls arrive from the model.
func commandArguments(raw json.RawMessage) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (h *Handler) Command(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	args, err := commandArguments(req.Arguments)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arguments must be an object or a JSON string"})
		return
	}
	cmd, err := services.DecodeCommand(req.Name, args)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.svc.Execute(c.Request.Context(), c.Param("id"), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) EndSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.EndSession(id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Socket(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.svc.Session(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.hub.serve(c.Writer, c.Request, id, sess); err != nil {
		// the upgrader has already written the error response
		h.log.Warn("websocket upgrade failed", zap.String("session_id", id), zap.Error(err))
	}
}

type menuProduct struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  models.Category `json:"category"`
	Available bool            `json:"available"`
	Price     string          `json:"price"`
}

func (h *Handler) Menu(c *gin.Context) {
	cat, err := h.svc.Menu(c.Request.Context(), c.Param("store"))
	if err != nil {
		h.fail(c, err)
		return
	}
	products := make([]menuProduct, 0, len(cat.Products))
	for _, p := range cat.Products {
		products = append(products, menuProduct{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Available: p.Available,
			Price:     engine.FormatPrice(p.BasePrice),
		})
	}
	c.JSON(http.StatusOK, gin.H{"storeId": cat.StoreID, "products": products, "menuRules": cat.Rules})
}

type availabilityRequest struct {
	Available *bool  `json:"available" binding:"required"`
	Password  string `json:"password"`
}

func (h *Handler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "available is required"})
		return
	}
	if err := h.staff.Check("ip:"+c.ClientIP(), req.Password); err != nil {
		h.fail(c, err)
		return
	}
	store, product := c.Param("store"), c.Param("product")
	if err := h.svc.SetAvailability(c.Request.Context(), store, product, *req.Available); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"storeId": store, "productId": product, "available": *req.Available})
}

// fail maps service errors to status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	var throttled *services.ThrottleError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrStoreNotFound),
		errors.Is(err, services.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnknownCommand),
		errors.Is(err, services.ErrInvalidCommand):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotEditable),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrWrongPassword):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrStaffAuthDisabled):
		status = http.StatusForbidden
	case errors.As(err, &throttled):
		status = http.StatusTooManyRequests
		c.Header("Retry-After", strconv.Itoa(throttled.WaitSeconds))
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
