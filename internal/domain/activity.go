package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityState is the lifecycle of a paid booking.
type ActivityState string

const (
	ActivityDraft     ActivityState = "draft"
	ActivityPending   ActivityState = "pending" // awaiting customer confirmation
	ActivityConfirmed ActivityState = "confirmed"
	ActivityPostponed ActivityState = "postponed"
	ActivityOngoing   ActivityState = "ongoing"
	ActivityCompleted ActivityState = "completed"
	ActivityCancelled ActivityState = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ActivityState) Valid() bool {
	switch s {
	case ActivityDraft, ActivityPending, ActivityConfirmed, ActivityPostponed,
		ActivityOngoing, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// PaymentState tracks whether the customer's payment has been settled.
type PaymentState string

const (
	PaymentPending  PaymentState = "pending"
	PaymentToVerify PaymentState = "to_verify"
	PaymentDone     PaymentState = "confirmed"
)

// Valid reports whether s is one of the known payment states.
func (s PaymentState) Valid() bool {
	switch s {
	case PaymentPending, PaymentToVerify, PaymentDone:
		return true
	}
	return false
}

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayTransfer PaymentMethod = "transfer"
	PayCheque   PaymentMethod = "cheque"
	PayVoucher  PaymentMethod = "voucher"
	PayOther    PaymentMethod = "other"
)

// ActivityType is a reference row for the kind of booking
// (e.g. school outing, corporate team building).
type ActivityType struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"` // Unique
	Color  string             `bson:"color,omitempty" json:"color,omitempty"` // Hex color for calendar rendering
	Active bool               `bson:"active" json:"active"`
}

// QualificationType is a reference row for a staffing qualification.
type QualificationType struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"` // Unique
	Active bool               `bson:"active" json:"active"`
}

// Activity is a paid, staffed external booking. It owns its
// requirements and assignments (cascade-deleted with it).
type Activity struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	ShortDescription string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	State            ActivityState      `bson:"state" json:"state"`

	TypeID    primitive.ObjectID `bson:"typeId" json:"typeId"`
	Date      time.Time          `bson:"date" json:"date"`           // Date only; normalized to midnight
	StartTime string             `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime   string             `bson:"endTime" json:"endTime"`     // "HH:MM", must be after StartTime

	CustomerName  string `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerEmail string `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	ContactName   string `bson:"contactName,omitempty" json:"contactName,omitempty"`
	ContactPhone  string `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	ContactEmail  string `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`

	ParticipantsPlan   *int   `bson:"participantsPlan,omitempty" json:"participantsPlan,omitempty"`
	ParticipantsActual *int   `bson:"participantsActual,omitempty" json:"participantsActual,omitempty"`
	ParticipantsNotes  string `bson:"participantsNotes,omitempty" json:"participantsNotes,omitempty"`

	PaymentAmount *float64      `bson:"paymentAmount,omitempty" json:"paymentAmount,omitempty"`
	PaymentMethod PaymentMethod `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentState  PaymentState  `bson:"paymentState" json:"paymentState"`

	BillingName    string `bson:"billingName,omitempty" json:"billingName,omitempty"`
	BillingVATOrCF string `bson:"billingVatOrCf,omitempty" json:"billingVatOrCf,omitempty"`
	BillingSDIOrPEC string `bson:"billingSdiOrPec,omitempty" json:"billingSdiOrPec,omitempty"`
	BillingAddress string `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StartEnd returns the concrete start/end instants of the booking.
func (a *Activity) StartEnd() (time.Time, time.Time) {
	return ParseTimeRange(a.Date, a.StartTime+"-"+a.EndTime)
}

// Requirement states that an activity needs Quantity people holding a
// given qualification.
type Requirement struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActivityID          primitive.ObjectID `bson:"activityId" json:"activityId"`
	QualificationTypeID primitive.ObjectID `bson:"qualificationTypeId" json:"qualificationTypeId"`
	Quantity            int                `bson:"quantity" json:"quantity"` // >= 1
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// Assignment fills one slot of a requirement with a person. Unique per
// (activity, requirement, user); the per-requirement count must never
// exceed the requirement's quantity.
type Assignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActivityID    primitive.ObjectID `bson:"activityId" json:"activityId"`
	RequirementID primitive.ObjectID `bson:"requirementId" json:"requirementId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	RoleLabel     string             `bson:"roleLabel,omitempty" json:"roleLabel,omitempty"` // Free text
	Hours         *float64           `bson:"hours,omitempty" json:"hours,omitempty"`         // Actual hours worked, when they differ from the slot
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
