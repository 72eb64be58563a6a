package handler

import (
	"errors"
	"main/model"
	"main/usecase"
	"main/utils"
	"time"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	service *usecase.EmployeesService
}

func NewEmployeeHandler(service *usecase.EmployeesService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var employee model.Employee
	if err := c.ShouldBindJSON(&employee); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.CreateEmployee(c.Request.Context(), &employee); err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Created(c, employee)
}

func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.service.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, employee)
}

func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.service.GetAllEmployees(c.Request.Context())
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, employees)
}

func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var updates model.Employee
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	employee, err := h.service.UpdateEmployee(c.Request.Context(), c.Param("id"), &updates)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, employee)
}

func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.service.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Employee deleted"})
}

func (h *EmployeeHandler) AssignShift(c *gin.Context) {
	var req struct {
		Date  time.Time   `json:"date" binding:"required"`
		Shift model.Shift `json:"shift" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.service.AssignShift(c.Request.Context(), c.Param("id"), req.Date, req.Shift)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, entry)
}

func (h *EmployeeHandler) GetRoster(c *gin.Context) {
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	entries, err := h.service.GetRoster(c.Request.Context(), c.Query("employee_id"), from, to)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}
	utils.Success(c, entries)
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return from, to, errors.New("from date must be YYYY-MM-DD")
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return from, to, errors.New("to date must be YYYY-MM-DD")
		}
	}
	return from, to, nil
}

func respondEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmployeeNotFound):
		utils.NotFound(c, err.Error())
	case isValidationMessage(err):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, err.Error())
	}
}
