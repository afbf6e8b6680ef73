package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sebino/rowing-app/internal/service"

	"github.com/gin-gonic/gin"
)

// CalendarHandler holds the calendar service dependency.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// --- Handler Methods ---

// MyCommitments returns the caller's agenda for a window
// (?from/?to, defaulting to the next 30 days).
func (h *CalendarHandler) MyCommitments(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, 30)
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

	commitments, err := h.calendarService.CommitmentsFor(c.Request.Context(), callerID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build commitments")
		return
	}
	c.JSON(http.StatusOK, commitments)
}

// MyToken returns the caller's calendar feed token (minting one on
// first call).
func (h *CalendarHandler) MyToken(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	token, err := h.calendarService.CalendarToken(c.Request.Context(), callerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch calendar token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RotateToken invalidates the caller's current feed URL.
func (h *CalendarHandler) RotateToken(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify caller")
		return
	}

	token, err := h.calendarService.RotateCalendarToken(c.Request.Context(), callerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to rotate calendar token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Feed serves the tokenized ICS feed. Unauthenticated by design: the
// token in the URL is the credential.
func (h *CalendarHandler) Feed(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")

	user, err := h.calendarService.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrCalendarTokenInvalid) {
			abortWithError(c, http.StatusNotFound, "calendar not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve calendar")
		}
		return
	}

	// Feed readers poll; a rolling 3-month window is plenty.
	from := time.Now().AddDate(0, -1, 0)
	to := time.Now().AddDate(0, 2, 0)
	commitments, err := h.calendarService.CommitmentsFor(c.Request.Context(), user.ID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build calendar")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(h.calendarService.RenderICS(commitments)))
}
