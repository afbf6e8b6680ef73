package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags a capability of a user. A user carries a *set* of roles
// (e.g. an athlete who also coaches), so role checks always go through
// HasRole rather than a per-role boolean field.
type Role string

const (
	RoleAthlete    Role = "athlete"
	RoleCoach      Role = "coach"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// UserQualification records a qualification held by a user
// (e.g. "Istruttore kayak"), with the metadata needed for listings.
// Expiry is informational only: staffing checks match on the type and
// the Active flag, never on ExpiresAt.
type UserQualification struct {
	QualificationTypeID primitive.ObjectID `bson:"qualificationTypeId" json:"qualificationTypeId"`
	ObtainedAt          time.Time          `bson:"obtainedAt" json:"obtainedAt"`
	ExpiresAt           *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Active              bool               `bson:"active" json:"active"`
}

// User represents a club member: athlete, coach, instructor, admin, or
// any combination of those.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	FirstName    string             `bson:"firstName" json:"firstName"`
	LastName     string             `bson:"lastName" json:"lastName"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber  string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	DateOfBirth  *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	TaxCode      string             `bson:"taxCode,omitempty" json:"taxCode,omitempty"`

	// Membership bookkeeping.
	EnrollmentYear        int        `bson:"enrollmentYear,omitempty" json:"enrollmentYear,omitempty"`
	MembershipDate        *time.Time `bson:"membershipDate,omitempty" json:"membershipDate,omitempty"`
	CertificateExpiration *time.Time `bson:"certificateExpiration,omitempty" json:"certificateExpiration,omitempty"`
	Address               string     `bson:"address,omitempty" json:"address,omitempty"`

	// ManualCategory, when set to the name of an existing category,
	// overrides the age-derived category for this user.
	ManualCategory string `bson:"manualCategory,omitempty" json:"manualCategory,omitempty"`
	Suspended      bool   `bson:"suspended" json:"suspended"`

	Roles          []Role              `bson:"roles" json:"roles"`
	Qualifications []UserQualification `bson:"qualifications,omitempty" json:"qualifications,omitempty"`

	// Opaque token for the personal ICS calendar feed.
	CalendarToken string `bson:"calendarToken,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsAthlete() bool { return u.HasRole(RoleAthlete) }
func (u *User) IsCoach() bool   { return u.HasRole(RoleCoach) }
func (u *User) IsAdmin() bool   { return u.HasRole(RoleAdmin) }

// IsStaff reports whether the user may act on behalf of other members
// (coach or admin).
func (u *User) IsStaff() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleCoach)
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AgeOn returns the user's age in whole years on the reference date.
// The reference date must always be the date of the event being
// evaluated (a training's own date, an activity's date), never "today".
// Returns 0 when the date of birth is unknown; callers that require a
// birth date must check DateOfBirth themselves.
func (u *User) AgeOn(ref time.Time) int {
	if u.DateOfBirth == nil {
		return 0
	}
	dob := *u.DateOfBirth
	age := ref.Year() - dob.Year()
	if ref.Month() < dob.Month() || (ref.Month() == dob.Month() && ref.Day() < dob.Day()) {
		age--
	}
	return age
}

// HasQualification reports whether the user holds an active
// qualification of the given type. Expiry dates are deliberately not
// consulted here: a granted qualification stays valid for staffing
// purposes until it is revoked or deactivated.
func (u *User) HasQualification(qualificationTypeID primitive.ObjectID) bool {
	for _, q := range u.Qualifications {
		if q.QualificationTypeID == qualificationTypeID && q.Active {
			return true
		}
	}
	return false
}
