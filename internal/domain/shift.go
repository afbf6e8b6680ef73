package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShiftSlot is the fixed time block of a club-opening shift.
type ShiftSlot string

const (
	SlotMorning ShiftSlot = "morning" // 08:00-12:00
	SlotEvening ShiftSlot = "evening" // 17:00-21:00
)

// Shift is one club-opening duty slot on a given day, optionally
// assigned to a coach. Shifts take part in time-conflict detection.
type Shift struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Date   time.Time           `bson:"date" json:"date"` // Date only; normalized to midnight
	Slot   ShiftSlot           `bson:"slot" json:"slot"`
	UserID *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
}

// StartEnd returns the concrete instants of the shift's fixed block.
func (s *Shift) StartEnd() (time.Time, time.Time) {
	startHour, endHour := 8, 12
	if s.Slot == SlotEvening {
		startHour, endHour = 17, 21
	}
	day := time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}
