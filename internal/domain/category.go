package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is an age bracket used to derive training rosters
// (e.g. "Allievo B1" 10-11, "Junior" 15-16, "Master" 27-99).
// Brackets are admin-seeded and may legitimately overlap; roster
// computation takes the union across assigned categories.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"` // Unique
	MinAge     int                `bson:"minAge" json:"minAge"`
	MaxAge     int                `bson:"maxAge" json:"maxAge"`
	MacroGroup string             `bson:"macroGroup,omitempty" json:"macroGroup,omitempty"` // e.g. "Under 14", "Over 14", "Master"
	SortOrder  int                `bson:"sortOrder" json:"sortOrder"`
}

// Contains reports whether the given age falls inside the bracket,
// boundaries included.
func (c Category) Contains(age int) bool {
	return c.MinAge <= age && age <= c.MaxAge
}

// Overlaps reports whether two brackets share at least one age.
func (c Category) Overlaps(other Category) bool {
	return c.MinAge <= other.MaxAge && other.MinAge <= c.MaxAge
}
