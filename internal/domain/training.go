package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recurrence marks how a training master record repeats.
type Recurrence string

const (
	RecurrenceNone   Recurrence = ""
	RecurrenceWeekly Recurrence = "weekly"
)

// TimeRangeCustom is the literal the booking form uses for "no fixed
// slot"; it parses to the full day, like an empty or malformed range.
const TimeRangeCustom = "personalizzato"

// Training is a session master record. Structured start/end times are
// always derived from the TimeRange wire string via ParseTimeRange;
// there are no separate time columns.
//
// Two recurrence mechanisms coexist and must not be conflated:
//
//   - Recurrence/RepeatUntil describe an *unmaterialized* weekly rule,
//     expanded in memory for calendar views (ScheduleService.Expand).
//   - RecurrenceGroupID links a family of rows *materialized* up front
//     by the creation flow (one Training per occurrence), so each
//     occurrence stays individually editable and deletable.
type Training struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"type" json:"type"` // e.g. "Barca", "Remoergometro", "Pesi"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        time.Time          `bson:"date" json:"date"` // Date only; normalized to midnight
	TimeRange   string             `bson:"timeRange" json:"timeRange"`

	Recurrence        Recurrence `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	RepeatUntil       *time.Time `bson:"repeatUntil,omitempty" json:"repeatUntil,omitempty"`
	RecurrenceGroupID string     `bson:"recurrenceGroupId,omitempty" json:"recurrenceGroupId,omitempty"` // uuid shared by materialized siblings

	CategoryIDs []primitive.ObjectID `bson:"categoryIds,omitempty" json:"categoryIds,omitempty"`
	CoachIDs    []primitive.ObjectID `bson:"coachIds,omitempty" json:"coachIds,omitempty"`
	BoatID      *primitive.ObjectID  `bson:"boatId,omitempty" json:"boatId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StartEnd returns the concrete start/end instants of the session.
func (t *Training) StartEnd() (time.Time, time.Time) {
	return ParseTimeRange(t.Date, t.TimeRange)
}

// HasCategory reports whether the category is assigned to the training.
func (t *Training) HasCategory(id primitive.ObjectID) bool {
	for _, c := range t.CategoryIDs {
		if c == id {
			return true
		}
	}
	return false
}

// HasCoach reports whether the user is an assigned coach.
func (t *Training) HasCoach(id primitive.ObjectID) bool {
	for _, c := range t.CoachIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Occurrence is one concrete date instance of a (possibly recurring)
// training, produced by in-memory expansion for calendar views. It is
// never persisted.
//
// IsOverride is reserved for per-date edits of a weekly master. The
// current creation flow materializes edited occurrences as standalone
// rows instead, so expansion always emits it as false.
type Occurrence struct {
	Date       time.Time          `json:"date"`
	TimeStart  time.Time          `json:"timeStart"`
	TimeEnd    time.Time          `json:"timeEnd"`
	SourceID   primitive.ObjectID `json:"sourceId"`
	IsOverride bool               `json:"isOverride"`
}

// ParseTimeRange converts a time-range wire string into concrete start
// and end instants on the given base date. Accepted forms:
//
//	"HH:MM-HH:MM"    explicit range
//	"HH:MM"          start with an implied 60-minute duration
//	"personalizzato" (or empty) the whole day
//
// Malformed strings fall back to the full day [00:00, 23:59:59]; this
// parser never fails. The string form is the de facto wire format for
// training times throughout the system.
func ParseTimeRange(base time.Time, s string) (time.Time, time.Time) {
	dayStart := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, TimeRangeCustom) {
		return dayStart, dayEnd
	}

	if i := strings.IndexByte(s, '-'); i >= 0 {
		start, okStart := parseClock(s[:i])
		end, okEnd := parseClock(s[i+1:])
		if !okStart || !okEnd {
			return dayStart, dayEnd
		}
		return dayStart.Add(start), dayStart.Add(end)
	}

	start, ok := parseClock(s)
	if !ok {
		return dayStart, dayEnd
	}
	return dayStart.Add(start), dayStart.Add(start + time.Hour)
}

// parseClock parses "HH:MM" (or "H:MM") into an offset from midnight.
func parseClock(s string) (time.Duration, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, true
}

// WeekdayNames maps the localized weekday names used by the recurrence
// day-selection form to Go weekdays.
var WeekdayNames = map[string]time.Weekday{
	"Lunedì":    time.Monday,
	"Martedì":   time.Tuesday,
	"Mercoledì": time.Wednesday,
	"Giovedì":   time.Thursday,
	"Venerdì":   time.Friday,
	"Sabato":    time.Saturday,
	"Domenica":  time.Sunday,
}

// WeekdayFromName resolves a localized weekday name; ok is false for
// unknown names.
func WeekdayFromName(name string) (time.Weekday, bool) {
	d, ok := WeekdayNames[name]
	return d, ok
}
