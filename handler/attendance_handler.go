package handler

import (
	"errors"
	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	service *usecase.AttendanceService
}

func NewAttendanceHandler(service *usecase.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req struct {
		At time.Time `json:"at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	record, err := h.service.CheckIn(c.Request.Context(), c.Param("id"), req.At)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}
	utils.Created(c, record)
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req struct {
		At time.Time `json:"at"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	record, err := h.service.CheckOut(c.Request.Context(), c.Param("id"), req.At)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}
	utils.Success(c, record)
}

func (h *AttendanceHandler) RecordBreaks(c *gin.Context) {
	var req struct {
		Date   time.Time           `json:"date" binding:"required"`
		Breaks []model.BreakPeriod `json:"breaks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.service.RecordBreaks(c.Request.Context(), c.Param("id"), req.Date, req.Breaks)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}
	utils.Success(c, record)
}

func (h *AttendanceHandler) GetSummary(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	summaries, err := h.service.SummarizeRange(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}
	utils.Success(c, dto.ToAttendanceSummaryResponses(summaries))
}

func respondAttendanceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		utils.NotFound(c, msg)
	case strings.Contains(msg, "already checked"):
		utils.Conflict(c, msg)
	case strings.Contains(msg, "no check-in found"),
		strings.Contains(msg, "no attendance record"):
		utils.NotFound(c, msg)
	case strings.Contains(msg, "break"),
		strings.Contains(msg, "must be after"),
		isValidationMessage(err):
		utils.BadRequest(c, msg)
	default:
		utils.InternalError(c, msg)
	}
}
