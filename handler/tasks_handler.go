package handler

import (
	"errors"
	"main/dto"
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	service *usecase.RecurringTasksService
}

func NewTaskHandler(service *usecase.RecurringTasksService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req struct {
		Title              string                    `json:"title" binding:"required"`
		Description        string                    `json:"description"`
		Priority           model.Priority            `json:"priority"`
		Pattern            model.Pattern             `json:"recurrence_pattern" binding:"required"`
		StartDate          time.Time                 `json:"start_date"`
		DueDate            time.Time                 `json:"due_date" binding:"required"`
		EndDate            time.Time                 `json:"end_date"`
		ContactIDs         []string                  `json:"contact_ids"`
		RequiresArn        bool                      `json:"requires_arn"`
		TeamMemberMappings []model.TeamMemberMapping `json:"team_member_mappings"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task := &model.RecurringTask{
		Title:              req.Title,
		Description:        req.Description,
		Priority:           req.Priority,
		Pattern:            req.Pattern,
		StartDate:          req.StartDate,
		DueDate:            req.DueDate,
		EndDate:            req.EndDate,
		ContactIDs:         req.ContactIDs,
		RequiresArn:        req.RequiresArn,
		TeamMemberMappings: req.TeamMemberMappings,
	}

	if err := h.service.CreateTask(c.Request.Context(), task); err != nil {
		respondTaskError(c, err)
		return
	}

	utils.Created(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	if search := c.Query("search"); search != "" {
		tasks, err := h.service.SearchTasks(ctx, search)
		if err != nil {
			respondTaskError(c, err)
			return
		}
		utils.Success(c, dto.ToTaskResponses(tasks))
		return
	}

	if contactID := c.Query("contact_id"); contactID != "" {
		tasks, err := h.service.GetTasksByContact(ctx, contactID)
		if err != nil {
			respondTaskError(c, err)
			return
		}
		utils.Success(c, dto.ToTaskResponses(tasks))
		return
	}

	tasks, err := h.service.GetAllTasks(ctx)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponses(tasks))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req model.RecurringTask
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.service.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) PauseTask(c *gin.Context) {
	task, err := h.service.Pause(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) ResumeTask(c *gin.Context) {
	task, err := h.service.Resume(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) CompleteCycle(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req struct {
		ArnNumber string `json:"arn_number"`
		ArnName   string `json:"arn_name"`
	}
	// Body is optional for tasks that do not require an ARN
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	task, err := h.service.CompleteCycle(c.Request.Context(), c.Param("id"),
		userID.(string), req.ArnNumber, req.ArnName)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, dto.ToTaskResponse(task))
}

func (h *TaskHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetTaskStats(c.Request.Context())
	if err != nil {
		respondTaskError(c, err)
		return
	}
	utils.Success(c, stats)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, usecase.ErrTaskPaused),
		errors.Is(err, usecase.ErrRevisionConflict):
		utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidPattern):
		utils.BadRequest(c, err.Error())
	case isValidationMessage(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}

func isValidationMessage(err error) bool {
	msg := err.Error()
	for _, fragment := range []string{
		"is required",
		"invalid priority level",
		"invalid status",
		"invalid shift",
		"cannot be before",
		"must be exactly 15 digits",
		"must be YYYY-MM",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
