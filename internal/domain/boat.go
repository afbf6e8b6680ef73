package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Boat is a club hull. Trainings may reference a boat; availability is
// a set of status flags evaluated in priority order by Status.
type Boat struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Type    string             `bson:"type" json:"type"` // e.g. "4x", "2-", "singolo"
	Builder string             `bson:"builder,omitempty" json:"builder,omitempty"`
	Year    int                `bson:"year,omitempty" json:"year,omitempty"`

	OarsAssigned string `bson:"oarsAssigned,omitempty" json:"oarsAssigned,omitempty"`

	InMaintenance bool       `bson:"inMaintenance" json:"inMaintenance"`
	OutOfService  bool       `bson:"outOfService" json:"outOfService"`
	OnLoan        bool       `bson:"onLoan" json:"onLoan"`
	Away          bool       `bson:"away" json:"away"` // At a regatta/transfer
	AvailableFrom *time.Time `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
}

// Status returns the display label for the boat's availability.
// Flags are checked in severity order; an in-service boat reports
// "in use".
func (b *Boat) Status() string {
	switch {
	case b.OutOfService:
		return "out of service"
	case b.InMaintenance:
		return "in maintenance"
	case b.OnLoan:
		return "on loan"
	case b.Away:
		return "away"
	default:
		return "in use"
	}
}
