package controllers

import (
	"net/http"
	"strconv"

	"postulate-api/models"
	"postulate-api/services"

	"github.com/gin-gonic/gin"
)

type WaitlistController struct {
	waitlist *services.WaitlistService
}

func NewWaitlistController(waitlist *services.WaitlistService) *WaitlistController {
	return &WaitlistController{waitlist: waitlist}
}

type joinWaitlistRequest struct {
	Email   string  `json:"email" binding:"required"`
	Type    string  `json:"type" binding:"required"`
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Message *string `json:"message"`
}

// Join POST /api/waitlist
func (wc *WaitlistController) Join(c *gin.Context) {
	var req joinWaitlistRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := wc.waitlist.Join(c.Request.Context(), services.JoinInput{
		Email:   req.Email,
		Type:    models.WaitlistType(req.Type),
		Name:    req.Name,
		Company: req.Company,
		Message: req.Message,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Successfully joined waitlist",
		"entry": gin.H{
			"id":        entry.ID,
			"email":     entry.Email,
			"type":      entry.Type,
			"createdAt": entry.CreatedAt,
		},
	})
}

// Stats GET /api/waitlist/stats
func (wc *WaitlistController) Stats(c *gin.Context) {
	stats, err := wc.waitlist.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// List GET /api/waitlist (admin)
func (wc *WaitlistController) List(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		fail(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		fail(c, err)
		return
	}

	page, err := wc.waitlist.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ValidationError("Validation failed", services.FieldError{Param: key, Msg: key + " must be an integer"})
	}
	return v, nil
}
