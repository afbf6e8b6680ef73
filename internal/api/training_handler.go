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

// TrainingHandler holds the scheduling dependencies.
type TrainingHandler struct {
	scheduleService service.ScheduleService
	rosterService   service.RosterService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(scheduleService service.ScheduleService, rosterService service.RosterService) *TrainingHandler {
	return &TrainingHandler{
		scheduleService: scheduleService,
		rosterService:   rosterService,
	}
}

// --- Request/Response Structs ---

type CreateTrainingRequest struct {
	Type        string   `json:"type" binding:"required"`
	Description string   `json:"description"`
	Date        string   `json:"date" binding:"required"` // "2006-01-02"
	TimeRange   string   `json:"timeRange"`
	CategoryIDs []string `json:"categoryIds"`
	CoachIDs    []string `json:"coachIds"`
	BoatID      string   `json:"boatId"`

	// Recurrence controls the weekly flows: with selected weekdays the
	// plan is materialized into individual rows; without them a single
	// weekly master is stored and expanded in memory for calendars.
	Recurrence string   `json:"recurrence"`
	Weekdays   []string `json:"weekdays"`
	Count      int      `json:"count"`
	Until      string   `json:"until"` // "2006-01-02", repeat-until for masters
}

type UpdateTrainingRequest struct {
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"` // "2006-01-02"
	TimeRange   string `json:"timeRange"`
	BoatID      string `json:"boatId"`     // empty clears
	Recurrence  string `json:"recurrence"` // "" or "weekly"; empty clears
	Until       string `json:"until"`      // "2006-01-02", empty clears
}

type UpdateMembershipsRequest struct {
	CategoryIDs []string `json:"categoryIds"`
	CoachIDs    []string `json:"coachIds"`
}

type CreateCategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	MinAge     int    `json:"minAge" binding:"min=0"`
	MaxAge     int    `json:"maxAge" binding:"min=0"`
	MacroGroup string `json:"macroGroup"`
	SortOrder  int    `json:"sortOrder"`
}

// --- Handler Methods ---

// CreateTraining creates either a single session or a materialized
// weekly family, depending on the recurrence field.
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	var req CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Recurrence != "" && req.Recurrence != string(domain.RecurrenceWeekly) {
		abortWithError(c, http.StatusBadRequest, "recurrence must be empty or weekly")
		return
	}
	categoryIDs, err := parseObjectIDs(req.CategoryIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid category ID")
		return
	}
	coachIDs, err := parseObjectIDs(req.CoachIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid coach ID")
		return
	}

	training := &domain.Training{
		Type:        req.Type,
		Description: req.Description,
		Date:        date,
		TimeRange:   req.TimeRange,
		CategoryIDs: categoryIDs,
		CoachIDs:    coachIDs,
	}
	if req.BoatID != "" {
		boatID, err := primitive.ObjectIDFromHex(req.BoatID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid boat ID")
			return
		}
		training.BoatID = &boatID
	}

	if req.Recurrence == string(domain.RecurrenceWeekly) && len(req.Weekdays) == 0 {
		// No selected weekdays means an unmaterialized weekly master:
		// one stored row, expanded in memory for calendar views.
		training.Recurrence = domain.RecurrenceWeekly
		if req.Until != "" {
			until, err := parseDate(req.Until)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "until must be YYYY-MM-DD")
				return
			}
			training.RepeatUntil = &until
		}
	} else if req.Recurrence == string(domain.RecurrenceWeekly) {
		plan := service.WeeklyPlan{Weekdays: req.Weekdays, Count: req.Count}
		if req.Until != "" {
			until, err := parseDate(req.Until)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, "until must be YYYY-MM-DD")
				return
			}
			plan.Until = &until
		}
		created, err := h.scheduleService.CreateWeeklyTrainings(c.Request.Context(), training, plan)
		if err != nil {
			if errors.Is(err, service.ErrNoRecurrenceDays) ||
				errors.Is(err, service.ErrUnknownWeekday) ||
				errors.Is(err, service.ErrRecurrenceHorizon) {
				abortWithError(c, http.StatusBadRequest, err.Error())
			} else {
				abortWithError(c, http.StatusInternalServerError, "Failed to create trainings")
			}
			return
		}
		c.JSON(http.StatusCreated, created)
		return
	}

	id, err := h.scheduleService.CreateTraining(c.Request.Context(), training)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	training.ID = id
	c.JSON(http.StatusCreated, training)
}

// GetTraining returns one training.
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}

	training, err := h.scheduleService.GetTraining(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch training")
		}
		return
	}
	c.JSON(http.StatusOK, training)
}

// UpdateTraining rewrites a training's scalar fields. Category and
// coach sets are managed through the memberships endpoint.
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}

	var req UpdateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	training, err := h.scheduleService.GetTraining(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch training")
		}
		return
	}

	if req.Recurrence != "" && req.Recurrence != string(domain.RecurrenceWeekly) {
		abortWithError(c, http.StatusBadRequest, "recurrence must be empty or weekly")
		return
	}

	training.Type = req.Type
	training.Description = req.Description
	training.Date = date
	training.TimeRange = req.TimeRange
	training.Recurrence = domain.Recurrence(req.Recurrence)
	training.RepeatUntil = nil
	if req.Until != "" {
		until, err := parseDate(req.Until)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "until must be YYYY-MM-DD")
			return
		}
		training.RepeatUntil = &until
	}
	training.BoatID = nil
	if req.BoatID != "" {
		boatID, err := primitive.ObjectIDFromHex(req.BoatID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid boat ID")
			return
		}
		training.BoatID = &boatID
	}

	if err := h.scheduleService.UpdateTraining(c.Request.Context(), training); err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update training")
		}
		return
	}
	c.JSON(http.StatusOK, training)
}

// ReplaceMemberships overwrites the category/coach sets of a training.
func (h *TrainingHandler) ReplaceMemberships(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}

	var req UpdateMembershipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	categoryIDs, err := parseObjectIDs(req.CategoryIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid category ID")
		return
	}
	coachIDs, err := parseObjectIDs(req.CoachIDs)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid coach ID")
		return
	}

	training, err := h.scheduleService.ReplaceMemberships(c.Request.Context(), id, categoryIDs, coachIDs)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update training")
		}
		return
	}
	c.JSON(http.StatusOK, training)
}

// DeleteTraining removes a training; ?mode=this_and_future removes the
// rest of its recurrence group too.
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}

	mode := service.DeleteSingle
	if c.Query("mode") == string(service.DeleteThisAndFuture) {
		mode = service.DeleteThisAndFuture
	}

	deleted, err := h.scheduleService.DeleteTraining(c.Request.Context(), id, mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotRecurring):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete training")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// GetRoster returns the computed roster of a training.
func (h *TrainingHandler) GetRoster(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid training ID")
		return
	}
	training, err := h.scheduleService.GetTraining(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch training")
		}
		return
	}

	roster, err := h.rosterService.RosterFor(c.Request.Context(), training)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute roster")
		return
	}

	responses := make([]UserResponse, 0, len(roster))
	for i := range roster {
		responses = append(responses, MapUserToResponse(&roster[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// WeekAgenda returns the merged training/shift agenda for the week
// starting at ?start=YYYY-MM-DD (defaults to the current week's Monday).
func (h *TrainingHandler) WeekAgenda(c *gin.Context) {
	weekStart, err := weekStartParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}

	entries, err := h.scheduleService.WeekAgenda(c.Request.Context(), weekStart)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build agenda")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// === Categories ===

// ListCategories returns the category directory.
func (h *TrainingHandler) ListCategories(c *gin.Context) {
	categories, err := h.rosterService.ListCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByName looks up one category by its unique name.
func (h *TrainingHandler) GetCategoryByName(c *gin.Context) {
	category, err := h.rosterService.FindCategoryByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch category")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory creates an age category; overlapping ranges are
// accepted with a warning in the response.
func (h *TrainingHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	category := &domain.Category{
		Name:       req.Name,
		MinAge:     req.MinAge,
		MaxAge:     req.MaxAge,
		MacroGroup: req.MacroGroup,
		SortOrder:  req.SortOrder,
	}
	id, warning, err := h.rosterService.CreateCategory(c.Request.Context(), category)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrCategoryAgeRange):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	category.ID = id

	response := gin.H{"category": category}
	if warning != "" {
		response["warning"] = warning
	}
	c.JSON(http.StatusCreated, response)
}

// === Shifts ===

type AssignShiftRequest struct {
	UserID string `json:"userId"` // empty clears the assignment
}

// ShiftsForWeek returns the opening-shift board for a week.
func (h *TrainingHandler) ShiftsForWeek(c *gin.Context) {
	weekStart, err := weekStartParam(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}

	shifts, err := h.scheduleService.ShiftsForWeek(c.Request.Context(), weekStart)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list shifts")
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// EnsureShift creates (or returns) the slot for a date.
func (h *TrainingHandler) EnsureShift(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	slot := domain.ShiftSlot(c.Query("slot"))
	if slot != domain.SlotMorning && slot != domain.SlotEvening {
		abortWithError(c, http.StatusBadRequest, "slot must be morning or evening")
		return
	}

	shift, err := h.scheduleService.EnsureShift(c.Request.Context(), date, slot)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create shift")
		return
	}
	c.JSON(http.StatusOK, shift)
}

// AssignShift books (or clears) a user on a shift slot.
func (h *TrainingHandler) AssignShift(c *gin.Context) {
	shiftID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid shift ID")
		return
	}

	var req AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var userID *primitive.ObjectID
	if req.UserID != "" {
		id, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid user ID")
			return
		}
		userID = &id
	}

	shift, err := h.scheduleService.AssignShift(c.Request.Context(), shiftID, userID)
	if err != nil {
		if errors.Is(err, service.ErrShiftNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to assign shift")
		}
		return
	}
	c.JSON(http.StatusOK, shift)
}

// --- Boat Inventory Handlers ---

type CreateBoatRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Builder string `json:"builder"`
	Year    int    `json:"year"`
}

type UpdateBoatRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Builder       string `json:"builder"`
	Year          int    `json:"year"`
	OarsAssigned  string `json:"oarsAssigned"`
	InMaintenance bool   `json:"inMaintenance"`
	OutOfService  bool   `json:"outOfService"`
	OnLoan        bool   `json:"onLoan"`
	Away          bool   `json:"away"`
	AvailableFrom string `json:"availableFrom"` // "YYYY-MM-DD", empty clears
}

func (h *TrainingHandler) ListBoats(c *gin.Context) {
	boats, err := h.scheduleService.ListBoats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list boats")
		return
	}
	c.JSON(http.StatusOK, boats)
}

func (h *TrainingHandler) CreateBoat(c *gin.Context) {
	var req CreateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	boat := &domain.Boat{
		Name:    req.Name,
		Type:    req.Type,
		Builder: req.Builder,
		Year:    req.Year,
	}
	id, err := h.scheduleService.CreateBoat(c.Request.Context(), boat)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create boat")
		return
	}
	boat.ID = id
	c.JSON(http.StatusCreated, boat)
}

func (h *TrainingHandler) UpdateBoat(c *gin.Context) {
	boatID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid boat ID format")
		return
	}

	var req UpdateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	boat := &domain.Boat{
		ID:            boatID,
		Name:          req.Name,
		Type:          req.Type,
		Builder:       req.Builder,
		Year:          req.Year,
		OarsAssigned:  req.OarsAssigned,
		InMaintenance: req.InMaintenance,
		OutOfService:  req.OutOfService,
		OnLoan:        req.OnLoan,
		Away:          req.Away,
	}
	if req.AvailableFrom != "" {
		from, err := parseDate(req.AvailableFrom)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid availableFrom date, use YYYY-MM-DD")
			return
		}
		boat.AvailableFrom = &from
	}

	if err := h.scheduleService.UpdateBoat(c.Request.Context(), boat); err != nil {
		if errors.Is(err, service.ErrBoatNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update boat")
		}
		return
	}
	c.JSON(http.StatusOK, boat)
}

// === Shared Helpers ===

// parseDate parses a "YYYY-MM-DD" request field.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseObjectIDs converts hex strings to ObjectIDs.
func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// weekStartParam reads ?start=YYYY-MM-DD, defaulting to the Monday of
// the current week.
func weekStartParam(c *gin.Context) (time.Time, error) {
	if s := c.Query("start"); s != "" {
		return parseDate(s)
	}
	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	monday := now.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC), nil
}
