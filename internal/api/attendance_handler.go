package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceHandler holds the attendance service dependency.
type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// --- Request/Response Structs ---

type ToggleAttendanceRequest struct {
	Status domain.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
}

type SetAttendanceRequest struct {
	AthleteID string                  `json:"athleteId" binding:"required"`
	Status    domain.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
	Reason    string                  `json:"reason"`
}

type BulkAttendanceRequest struct {
	Items []struct {
		AthleteID string                  `json:"athleteId" binding:"required"`
		Status    domain.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
	} `json:"items" binding:"required,min=1"`
	Reason string `json:"reason"`
}

// --- Handler Methods ---

// Toggle is the athlete self-service endpoint: the caller sets their
// own status for a training.
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	var req ToggleAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	attendance, err := h.attendanceService.SelfToggle(c.Request.Context(), trainingID, callerID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound), errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotAnAthlete), errors.Is(err, service.ErrOutsideRoster):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAttendanceLocked):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update attendance")
		}
		return
	}
	c.JSON(http.StatusOK, attendance)
}

// Set is the coach/admin override for one athlete.
func (h *AttendanceHandler) Set(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	var req SetAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	athleteID, err := primitive.ObjectIDFromHex(req.AthleteID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid athlete ID")
		return
	}

	attendance, err := h.attendanceService.SetStatus(c.Request.Context(), trainingID, athleteID, req.Status, &callerID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound), errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update attendance")
		}
		return
	}
	c.JSON(http.StatusOK, attendance)
}

// Bulk applies a batch of coach sets atomically.
func (h *AttendanceHandler) Bulk(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	var req BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	items := make([]service.BulkItem, 0, len(req.Items))
	for _, item := range req.Items {
		athleteID, err := primitive.ObjectIDFromHex(item.AthleteID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid athlete ID")
			return
		}
		items = append(items, service.BulkItem{AthleteID: athleteID, Status: item.Status})
	}

	results, err := h.attendanceService.BulkSet(c.Request.Context(), trainingID, items, &callerID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrOutsideRoster):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to apply bulk attendance")
		}
		return
	}
	c.JSON(http.StatusOK, results)
}

// List returns the attendance sheet of a training.
func (h *AttendanceHandler) List(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}

	entries, err := h.attendanceService.ListForTraining(c.Request.Context(), trainingID)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list attendance")
		}
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ToggleCategory flips a category on a training (pruning stale
// attendance on removal).
func (h *AttendanceHandler) ToggleCategory(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	categoryName := c.Param("category")
	if categoryName == "" {
		abortWithError(c, http.StatusBadRequest, "category name is required")
		return
	}

	training, err := h.attendanceService.ToggleCategory(c.Request.Context(), trainingID, categoryName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound), errors.Is(err, service.ErrCategoryNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to toggle category")
		}
		return
	}
	c.JSON(http.StatusOK, training)
}

// Changes returns an athlete's audit trail for a training.
func (h *AttendanceHandler) Changes(c *gin.Context) {
	trainingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	athleteID, err := primitive.ObjectIDFromHex(c.Param("athleteId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid athlete ID")
		return
	}

	changes, err := h.attendanceService.ListChanges(c.Request.Context(), trainingID, athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list changes")
		return
	}
	c.JSON(http.StatusOK, changes)
}

// Stats returns an athlete's attendance KPIs for a date window
// (?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the current year).
func (h *AttendanceHandler) Stats(c *gin.Context) {
	athleteID, err := primitive.ObjectIDFromHex(c.Param("athleteId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid athlete ID")
		return
	}

	now := time.Now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	if s := c.Query("from"); s != "" {
		if from, err = parseDate(s); err != nil {
			abortWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = parseDate(s); err != nil {
			abortWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
	}

	stats, err := h.attendanceService.StatsForAthlete(c.Request.Context(), athleteID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
