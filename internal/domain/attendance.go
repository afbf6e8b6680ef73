package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the athlete's declared intent for a training.
// StatusMaybe is the implicit default: an athlete with no attendance
// row at all counts as "maybe".
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusMaybe   AttendanceStatus = "maybe"
)

// AttendanceSource records who produced the current status.
type AttendanceSource string

const (
	SourceSystem  AttendanceSource = "system"
	SourceAthlete AttendanceSource = "athlete"
	SourceCoach   AttendanceSource = "coach"
)

// Attendance is the per (training, athlete) declaration. Unique per
// pair; owned by the training (deleted with it).
type Attendance struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainingID    primitive.ObjectID `bson:"trainingId" json:"trainingId"`
	AthleteID     primitive.ObjectID `bson:"athleteId" json:"athleteId"`
	Status        AttendanceStatus   `bson:"status" json:"status"`
	Source        AttendanceSource   `bson:"source" json:"source"`
	ChangeCount   int                `bson:"changeCount" json:"changeCount"`
	LastChangedAt *time.Time         `bson:"lastChangedAt,omitempty" json:"lastChangedAt,omitempty"`
}

// AttendanceChange is an append-only audit entry, written on every
// transition including the very first one (OldStatus is StatusMaybe
// when the row was just created).
type AttendanceChange struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AttendanceID primitive.ObjectID  `bson:"attendanceId" json:"attendanceId"`
	ChangedByID  *primitive.ObjectID `bson:"changedById,omitempty" json:"changedById,omitempty"`
	OldStatus    AttendanceStatus    `bson:"oldStatus" json:"oldStatus"`
	NewStatus    AttendanceStatus    `bson:"newStatus" json:"newStatus"`
	Source       AttendanceSource    `bson:"source" json:"source"`
	Reason       string              `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}
