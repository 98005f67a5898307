package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/service"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/response"
)

// AssignmentHandler exposes task and exam endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary Assignments of a class ordered by due date
// @Tags Assignments
// @Produce json
// @Param claseId query int true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /tareas [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	classID, err := strconv.ParseInt(c.Query("claseId"), 10, 64)
	if err != nil || classID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "claseId must be a positive integer"))
		return
	}
	assignments, err := h.assignments.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /tareas [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed assignment payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /tareas/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed assignment payload"))
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete an assignment and its grades
// @Tags Assignments
// @Param id path int true "Assignment ID"
// @Success 204
// @Router /tareas/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
