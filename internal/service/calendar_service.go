package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCalendarTokenInvalid = errors.New("calendar token not recognized")
)

// Commitment is one entry of a member's personal agenda feed:
// a training they row in or coach, or a shift they cover.
type Commitment struct {
	Kind        string    `json:"kind"` // "training", "coaching" or "shift"
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
}

// --- Service Interface ---
type CalendarService interface {
	// CommitmentsFor collects the user's trainings (as athlete in
	// roster or as coach) and shifts inside the window, sorted by
	// start time.
	CommitmentsFor(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time) ([]Commitment, error)
	// RenderICS renders a commitment list as an iCalendar document
	// with Europe/Rome local times.
	RenderICS(commitments []Commitment) string
	// CalendarToken returns the user's feed token, minting one on
	// first use; RotateCalendarToken invalidates the old URL.
	CalendarToken(ctx context.Context, userID primitive.ObjectID) (string, error)
	RotateCalendarToken(ctx context.Context, userID primitive.ObjectID) (string, error)
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

// --- Service Implementation ---

// calendarService implements the CalendarService interface.
type calendarService struct {
	userRepo     repository.UserRepository
	trainingRepo repository.TrainingRepository
	shiftRepo    repository.ShiftRepository
	roster       RosterService
	timezone     *time.Location
}

// NewCalendarService creates a new instance of calendarService. The
// timezone is the club's local zone used for ICS rendering.
func NewCalendarService(
	userRepo repository.UserRepository,
	trainingRepo repository.TrainingRepository,
	shiftRepo repository.ShiftRepository,
	roster RosterService,
	timezone *time.Location,
) CalendarService {
	if timezone == nil {
		timezone = time.UTC
	}
	return &calendarService{
		userRepo:     userRepo,
		trainingRepo: trainingRepo,
		shiftRepo:    shiftRepo,
		roster:       roster,
		timezone:     timezone,
	}
}

// === Feed ===

// CommitmentsFor builds the personal agenda of a member.
func (s *calendarService) CommitmentsFor(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time) ([]Commitment, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	commitments := make([]Commitment, 0)

	// 1. Trainings: coached, or rowed (athlete in the computed roster)
	trainings, err := s.trainingRepo.ListByDateRange(ctx, midnight(windowStart), midnight(windowEnd))
	if err != nil {
		return nil, err
	}
	for i := range trainings {
		t := &trainings[i]
		kind := ""
		if t.HasCoach(userID) {
			kind = "coaching"
		} else if user.IsAthlete() {
			roster, err := s.roster.RosterFor(ctx, t)
			if err != nil {
				return nil, err
			}
			for j := range roster {
				if roster[j].ID == userID {
					kind = "training"
					break
				}
			}
		}
		if kind == "" {
			continue
		}
		start, end := t.StartEnd()
		commitments = append(commitments, Commitment{
			Kind:        kind,
			Title:       t.Type,
			Start:       start,
			End:         end,
			Description: t.Description,
		})
	}

	// 2. Shifts covered by the user
	shifts, err := s.shiftRepo.ListByUserInRange(ctx, userID, midnight(windowStart), midnight(windowEnd))
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		start, end := shifts[i].StartEnd()
		commitments = append(commitments, Commitment{
			Kind:  "shift",
			Title: "Apertura sede",
			Start: start,
			End:   end,
		})
	}

	sortCommitments(commitments)
	return commitments, nil
}

// === ICS Rendering ===

const icsTimezone = "Europe/Rome"

// RenderICS produces a minimal RFC 5545 document. Times are emitted in
// the club's local zone with a TZID reference; the embedded VTIMEZONE
// covers CET/CEST.
func (s *calendarService) RenderICS(commitments []Commitment) string {
	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:-//Canottieri Sebino//rowing-app//IT")
	writeICSLine(&b, "CALSCALE:GREGORIAN")

	writeICSLine(&b, "BEGIN:VTIMEZONE")
	writeICSLine(&b, "TZID:"+icsTimezone)
	writeICSLine(&b, "BEGIN:STANDARD")
	writeICSLine(&b, "DTSTART:19701025T030000")
	writeICSLine(&b, "RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU")
	writeICSLine(&b, "TZOFFSETFROM:+0200")
	writeICSLine(&b, "TZOFFSETTO:+0100")
	writeICSLine(&b, "END:STANDARD")
	writeICSLine(&b, "BEGIN:DAYLIGHT")
	writeICSLine(&b, "DTSTART:19700329T020000")
	writeICSLine(&b, "RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU")
	writeICSLine(&b, "TZOFFSETFROM:+0100")
	writeICSLine(&b, "TZOFFSETTO:+0200")
	writeICSLine(&b, "END:DAYLIGHT")
	writeICSLine(&b, "END:VTIMEZONE")

	for i := range commitments {
		c := &commitments[i]
		start := c.Start.In(s.timezone)
		end := c.End.In(s.timezone)
		writeICSLine(&b, "BEGIN:VEVENT")
		writeICSLine(&b, fmt.Sprintf("UID:%s-%d@rowing-app", start.Format("20060102T150405"), i))
		writeICSLine(&b, "DTSTAMP:"+time.Now().UTC().Format("20060102T150405Z"))
		writeICSLine(&b, fmt.Sprintf("DTSTART;TZID=%s:%s", icsTimezone, start.Format("20060102T150405")))
		writeICSLine(&b, fmt.Sprintf("DTEND;TZID=%s:%s", icsTimezone, end.Format("20060102T150405")))
		writeICSLine(&b, "SUMMARY:"+escapeICS(c.Title))
		if c.Description != "" {
			writeICSLine(&b, "DESCRIPTION:"+escapeICS(c.Description))
		}
		writeICSLine(&b, "CATEGORIES:"+strings.ToUpper(c.Kind))
		writeICSLine(&b, "END:VEVENT")
	}

	writeICSLine(&b, "END:VCALENDAR")
	return b.String()
}

// === Calendar Tokens ===

// CalendarToken returns the user's feed token, creating it lazily.
func (s *calendarService) CalendarToken(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if user.CalendarToken != "" {
		return user.CalendarToken, nil
	}
	return s.mintToken(ctx, user)
}

// RotateCalendarToken replaces the user's token with a fresh one.
func (s *calendarService) RotateCalendarToken(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return s.mintToken(ctx, user)
}

// ResolveToken maps a feed token back to its owner.
func (s *calendarService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrCalendarTokenInvalid
	}
	user, err := s.userRepo.GetByCalendarToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCalendarTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *calendarService) mintToken(ctx context.Context, user *domain.User) (string, error) {
	user.CalendarToken = uuid.NewString()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	return user.CalendarToken, nil
}

// === Shared Helpers ===

func sortCommitments(commitments []Commitment) {
	sort.SliceStable(commitments, func(i, j int) bool {
		return commitments[i].Start.Before(commitments[j].Start)
	})
}

// writeICSLine appends one CRLF-terminated content line.
func writeICSLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeICS escapes the characters RFC 5545 reserves in text values.
func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
