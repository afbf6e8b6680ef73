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

// ActivityHandler holds the activity and availability dependencies.
type ActivityHandler struct {
	activityService service.ActivityService
	availability    service.AvailabilityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService, availability service.AvailabilityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		availability:    availability,
	}
}

// --- Request/Response Structs ---

type CreateActivityRequest struct {
	Title            string  `json:"title" binding:"required"`
	ShortDescription string  `json:"shortDescription"`
	TypeID           string  `json:"typeId" binding:"required"`
	Date             string  `json:"date" binding:"required"` // "2006-01-02"
	StartTime        string  `json:"startTime" binding:"required"`
	EndTime          string  `json:"endTime" binding:"required"`
	State            string  `json:"state"`
	CustomerName     string  `json:"customerName"`
	ContactName      string  `json:"contactName"`
	ContactPhone     string  `json:"contactPhone"`
	ContactEmail     string  `json:"contactEmail"`
	ParticipantsPlan *int    `json:"participantsPlan"`
	PaymentAmount    *float64 `json:"paymentAmount"`
}

type UpdateActivityRequest struct {
	Title            string `json:"title" binding:"required"`
	ShortDescription string `json:"shortDescription"`
	TypeID           string `json:"typeId" binding:"required"`
	Date             string `json:"date" binding:"required"` // "2006-01-02"
	StartTime        string `json:"startTime" binding:"required"`
	EndTime          string `json:"endTime" binding:"required"`
	State            string `json:"state"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	ContactName   string `json:"contactName"`
	ContactPhone  string `json:"contactPhone"`
	ContactEmail  string `json:"contactEmail"`

	ParticipantsPlan   *int   `json:"participantsPlan"`
	ParticipantsActual *int   `json:"participantsActual"`
	ParticipantsNotes  string `json:"participantsNotes"`

	PaymentAmount *float64 `json:"paymentAmount"`
	PaymentMethod string   `json:"paymentMethod"`
	PaymentState  string   `json:"paymentState"`

	BillingName     string `json:"billingName"`
	BillingVATOrCF  string `json:"billingVatOrCf"`
	BillingSDIOrPEC string `json:"billingSdiOrPec"`
	BillingAddress  string `json:"billingAddress"`
}

type AddRequirementRequest struct {
	QualificationTypeID string `json:"qualificationTypeId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
}

type UpdateRequirementRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CreateAssignmentRequest struct {
	RequirementID string `json:"requirementId" binding:"required"`
	UserID        string `json:"userId" binding:"required"`
	RoleLabel     string `json:"roleLabel"`
}

type SelfAssignRequest struct {
	UserID        string `json:"userId"`        // defaults to the caller
	RequirementID string `json:"requirementId"` // optional, resolver scans when empty
}

// --- Handler Methods ---

// Create stores a new activity booking.
func (h *ActivityHandler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	typeID, err := primitive.ObjectIDFromHex(req.TypeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity type ID")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	activity := &domain.Activity{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		State:            domain.ActivityState(req.State),
		TypeID:           typeID,
		Date:             date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		CustomerName:     req.CustomerName,
		ContactName:      req.ContactName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
		ParticipantsPlan: req.ParticipantsPlan,
		PaymentAmount:    req.PaymentAmount,
	}
	id, err := h.activityService.CreateActivity(c.Request.Context(), activity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityTypeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrActivityTimes),
			errors.Is(err, service.ErrInvalidActivityState),
			errors.Is(err, service.ErrInvalidPaymentState):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	activity.ID = id
	c.JSON(http.StatusCreated, activity)
}

// Get returns one activity.
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	activity, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch activity")
		}
		return
	}
	c.JSON(http.StatusOK, activity)
}

// Update rewrites an activity, carrying the booking's lifecycle state
// and payment bookkeeping. State and payment state keep their stored
// values when omitted.
func (h *ActivityHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	typeID, err := primitive.ObjectIDFromHex(req.TypeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity type ID")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	activity, err := h.activityService.GetActivity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch activity")
		}
		return
	}

	activity.Title = req.Title
	activity.ShortDescription = req.ShortDescription
	activity.TypeID = typeID
	activity.Date = date
	activity.StartTime = req.StartTime
	activity.EndTime = req.EndTime
	if req.State != "" {
		activity.State = domain.ActivityState(req.State)
	}
	activity.CustomerName = req.CustomerName
	activity.CustomerEmail = req.CustomerEmail
	activity.ContactName = req.ContactName
	activity.ContactPhone = req.ContactPhone
	activity.ContactEmail = req.ContactEmail
	activity.ParticipantsPlan = req.ParticipantsPlan
	activity.ParticipantsActual = req.ParticipantsActual
	activity.ParticipantsNotes = req.ParticipantsNotes
	activity.PaymentAmount = req.PaymentAmount
	activity.PaymentMethod = domain.PaymentMethod(req.PaymentMethod)
	if req.PaymentState != "" {
		activity.PaymentState = domain.PaymentState(req.PaymentState)
	}
	activity.BillingName = req.BillingName
	activity.BillingVATOrCF = req.BillingVATOrCF
	activity.BillingSDIOrPEC = req.BillingSDIOrPEC
	activity.BillingAddress = req.BillingAddress

	if err := h.activityService.UpdateActivity(c.Request.Context(), activity); err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrActivityTypeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrActivityTimes),
			errors.Is(err, service.ErrInvalidActivityState),
			errors.Is(err, service.ErrInvalidPaymentState):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update activity")
		}
		return
	}
	c.JSON(http.StatusOK, activity)
}

// List returns activities, optionally windowed with ?from/?to.
func (h *ActivityHandler) List(c *gin.Context) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		from = &d
	}
	if s := c.Query("to"); s != "" {
		d, err := parseDate(s)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		to = &d
	}

	activities, err := h.activityService.ListActivities(c.Request.Context(), from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list activities")
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Delete removes an activity with its requirements and assignments.
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	if err := h.activityService.DeleteActivity(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete activity")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// === Requirements ===

// AddRequirement attaches a staffing requirement.
func (h *ActivityHandler) AddRequirement(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var req AddRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	qualTypeID, err := primitive.ObjectIDFromHex(req.QualificationTypeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid qualification type ID")
		return
	}

	requirement, err := h.activityService.AddRequirement(c.Request.Context(), activityID, qualTypeID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrQualTypeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidQuantity):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add requirement")
		}
		return
	}
	c.JSON(http.StatusCreated, requirement)
}

// ListRequirements returns an activity's requirements.
func (h *ActivityHandler) ListRequirements(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	requirements, err := h.activityService.ListRequirements(c.Request.Context(), activityID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list requirements")
		return
	}
	c.JSON(http.StatusOK, requirements)
}

// UpdateRequirement changes a requirement's quantity.
func (h *ActivityHandler) UpdateRequirement(c *gin.Context) {
	requirementID, err := primitive.ObjectIDFromHex(c.Param("reqId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid requirement ID")
		return
	}

	var req UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	requirement, err := h.activityService.UpdateRequirementQuantity(c.Request.Context(), requirementID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequirementNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrQuantityBelowAssigned), errors.Is(err, service.ErrInvalidQuantity):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update requirement")
		}
		return
	}
	c.JSON(http.StatusOK, requirement)
}

// DeleteRequirement removes an unbooked requirement.
func (h *ActivityHandler) DeleteRequirement(c *gin.Context) {
	requirementID, err := primitive.ObjectIDFromHex(c.Param("reqId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid requirement ID")
		return
	}

	if err := h.activityService.DeleteRequirement(c.Request.Context(), requirementID); err != nil {
		switch {
		case errors.Is(err, service.ErrRequirementNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRequirementHasBookings):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete requirement")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// === Assignments ===

// CreateAssignment books a user onto a requirement (staff only).
func (h *ActivityHandler) CreateAssignment(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	requirementID, err := primitive.ObjectIDFromHex(req.RequirementID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid requirement ID")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	assignment, err := h.activityService.CreateAssignment(c.Request.Context(), activityID, requirementID, userID, req.RoleLabel)
	if err != nil {
		writeAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// SelfAssign resolves and books a slot for the caller (or, for staff,
// another user).
func (h *ActivityHandler) SelfAssign(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	var req SelfAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	targetID := callerID
	if req.UserID != "" {
		targetID, err = primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid user ID")
			return
		}
	}
	var requirementID *primitive.ObjectID
	if req.RequirementID != "" {
		id, err := primitive.ObjectIDFromHex(req.RequirementID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid requirement ID")
			return
		}
		requirementID = &id
	}

	// 1. Resolve
	result, err := h.availability.CanSelfAssign(c.Request.Context(), callerID, targetID, activityID, requirementID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAssignOnly):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrActivityNotFound),
			errors.Is(err, service.ErrRequirementNotFound),
			errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRequirementMismatch):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve self-assignment")
		}
		return
	}
	if !result.Allowed {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	// 2. Book the resolved requirement
	assignment, err := h.activityService.CreateAssignment(c.Request.Context(), activityID, result.RequirementID, targetID, "")
	if err != nil {
		writeAssignmentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments returns an activity's bookings.
func (h *ActivityHandler) ListAssignments(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	assignments, err := h.activityService.ListAssignments(c.Request.Context(), activityID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list assignments")
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// DeleteAssignment removes a booking.
func (h *ActivityHandler) DeleteAssignment(c *gin.Context) {
	assignmentID, err := primitive.ObjectIDFromHex(c.Param("assignmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid assignment ID")
		return
	}

	if err := h.activityService.DeleteAssignment(c.Request.Context(), assignmentID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete assignment")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Coverage returns the staffing ratio of an activity.
func (h *ActivityHandler) Coverage(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}

	coverage, err := h.activityService.CoverageFor(c.Request.Context(), activityID)
	if err != nil {
		if errors.Is(err, service.ErrActivityNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute coverage")
		}
		return
	}
	c.JSON(http.StatusOK, coverage)
}

// AvailableUsers lists eligible candidates for a requirement.
func (h *ActivityHandler) AvailableUsers(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid activity ID")
		return
	}
	requirementID, err := primitive.ObjectIDFromHex(c.Param("reqId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid requirement ID")
		return
	}

	users, err := h.availability.AvailableUsersFor(c.Request.Context(), activityID, requirementID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrRequirementNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRequirementMismatch):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to list candidates")
		}
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, MapUserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// === Reference Directories ===

type CreateTypeRequest struct {
	Name   string `json:"name" binding:"required"`
	Color  string `json:"color"`
	Active *bool  `json:"active"`
}

// ListActivityTypes returns the activity type directory.
func (h *ActivityHandler) ListActivityTypes(c *gin.Context) {
	types, err := h.activityService.ListActivityTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list activity types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateActivityType adds a reference row.
func (h *ActivityHandler) CreateActivityType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	activityType := &domain.ActivityType{Name: req.Name, Color: req.Color, Active: true}
	if req.Active != nil {
		activityType.Active = *req.Active
	}
	id, err := h.activityService.CreateActivityType(c.Request.Context(), activityType)
	if err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	activityType.ID = id
	c.JSON(http.StatusCreated, activityType)
}

// ListQualificationTypes returns the qualification type directory.
func (h *ActivityHandler) ListQualificationTypes(c *gin.Context) {
	types, err := h.activityService.ListQualificationTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list qualification types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateQualificationType adds a reference row.
func (h *ActivityHandler) CreateQualificationType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	qualificationType := &domain.QualificationType{Name: req.Name, Active: true}
	if req.Active != nil {
		qualificationType.Active = *req.Active
	}
	id, err := h.activityService.CreateQualificationType(c.Request.Context(), qualificationType)
	if err != nil {
		abortWithError(c, http.StatusConflict, err.Error())
		return
	}
	qualificationType.ID = id
	c.JSON(http.StatusCreated, qualificationType)
}

// === User Qualifications ===

type GrantQualificationRequest struct {
	QualificationTypeID string  `json:"qualificationTypeId" binding:"required"`
	ObtainedAt          string  `json:"obtainedAt"` // "2006-01-02", defaults to today
	ExpiresAt           *string `json:"expiresAt"`
}

// GrantQualification adds a qualification to a user's profile.
func (h *ActivityHandler) GrantQualification(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req GrantQualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	qualTypeID, err := primitive.ObjectIDFromHex(req.QualificationTypeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid qualification type ID")
		return
	}

	obtainedAt := time.Now()
	if req.ObtainedAt != "" {
		if obtainedAt, err = parseDate(req.ObtainedAt); err != nil {
			abortWithError(c, http.StatusBadRequest, "obtainedAt must be YYYY-MM-DD")
			return
		}
	}
	var expiresAt *time.Time
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		d, err := parseDate(*req.ExpiresAt)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "expiresAt must be YYYY-MM-DD")
			return
		}
		expiresAt = &d
	}

	err = h.activityService.GrantQualification(c.Request.Context(), userID, qualTypeID, obtainedAt, expiresAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrQualTypeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrQualificationHeld):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to grant qualification")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// RevokeQualification deactivates a user's qualification.
func (h *ActivityHandler) RevokeQualification(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid user ID")
		return
	}
	qualTypeID, err := primitive.ObjectIDFromHex(c.Param("qualTypeId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid qualification type ID")
		return
	}

	err = h.activityService.RevokeQualification(c.Request.Context(), userID, qualTypeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrQualificationNotHeld):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to revoke qualification")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// === Shared Helpers ===

// writeAssignmentError maps assignment-creation failures onto HTTP
// statuses; the service's fixed check order means the first failing
// check produced the error.
func writeAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound),
		errors.Is(err, service.ErrRequirementNotFound),
		errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRequirementMismatch):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotQualified), errors.Is(err, service.ErrRequirementFull):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTimeConflict), errors.Is(err, service.ErrDuplicateAssignment):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to create assignment")
	}
}
