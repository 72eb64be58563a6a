package handler

import (
	"errors"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	service *usecase.CompletionsService
}

func NewCompletionHandler(service *usecase.CompletionsService) *CompletionHandler {
	return &CompletionHandler{service: service}
}

func (h *CompletionHandler) GetCompletion(c *gin.Context) {
	rec, err := h.service.GetByClientTaskMonth(c.Request.Context(),
		c.Param("id"), c.Param("clientId"), c.Param("monthKey"))
	if err != nil {
		respondCompletionError(c, err)
		return
	}
	if rec == nil {
		// Not an error: the period simply has not been touched
		utils.Success(c, nil)
		return
	}
	utils.Success(c, rec)
}

func (h *CompletionHandler) ListCompletions(c *gin.Context) {
	records, err := h.service.ListByTask(c.Request.Context(),
		c.Param("id"), c.Query("month_key"))
	if err != nil {
		respondCompletionError(c, err)
		return
	}
	utils.Success(c, records)
}

type markRequest struct {
	ClientID  string `json:"client_id" binding:"required"`
	MonthKey  string `json:"month_key" binding:"required"`
	ArnNumber string `json:"arn_number"`
	ArnName   string `json:"arn_name"`
}

func (h *CompletionHandler) MarkCompleted(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.service.MarkCompleted(c.Request.Context(), c.Param("id"),
		req.ClientID, req.MonthKey, userID.(string), req.ArnNumber, req.ArnName)
	if err != nil {
		respondCompletionError(c, err)
		return
	}
	utils.Success(c, rec)
}

func (h *CompletionHandler) MarkIncomplete(c *gin.Context) {
	err := h.service.MarkIncomplete(c.Request.Context(),
		c.Param("id"), c.Param("clientId"), c.Param("monthKey"))
	if err != nil {
		respondCompletionError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Completion removed"})
}

func (h *CompletionHandler) ToggleCompletion(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.service.ToggleCompletion(c.Request.Context(), c.Param("id"),
		req.ClientID, req.MonthKey, userID.(string), req.ArnNumber, req.ArnName)
	if err != nil {
		respondCompletionError(c, err)
		return
	}
	if rec == nil {
		utils.Success(c, gin.H{"completed": false})
		return
	}
	utils.Success(c, rec)
}

func (h *CompletionHandler) BulkUpdate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		Entries []usecase.BulkEntry `json:"entries" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.service.BulkUpdate(c.Request.Context(), c.Param("id"),
		req.Entries, userID.(string))
	if err != nil {
		// Partial failure: some entries applied, the rest reported here
		respondCompletionError(c, err)
		return
	}
	utils.Success(c, gin.H{"updated": len(req.Entries)})
}

func respondCompletionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, usecase.ErrClientNotMapped):
		utils.Forbidden(c, err.Error())
	case isValidationMessage(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}
