package model

import "time"

// Known activity categories. Type is an open string; these are the ones
// benchmarks exist for.
const (
	CategoryTravel = "travel"
	CategoryFood   = "food"
	CategoryEnergy = "energy"
)

// KnownCategories lists the categories always reported in breakdowns.
var KnownCategories = []string{CategoryTravel, CategoryFood, CategoryEnergy}

// Activity is a single logged event with its CO2 estimate in kilograms.
type Activity struct {
	ID          string    `bson:"_id"         db:"id"`
	UserID      string    `bson:"user_id"     db:"user_id"`
	Type        string    `bson:"type"        db:"type"`
	Name        string    `bson:"name"        db:"name"`
	Description string    `bson:"description" db:"description"`
	Amount      float64   `bson:"amount"      db:"amount"`
	Unit        string    `bson:"unit"        db:"unit"`
	CarbonCO2   float64   `bson:"carbon_co2"  db:"carbon_co2"`
	Date        time.Time `bson:"date"        db:"date"`
	CreatedAt   time.Time `bson:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"  db:"updated_at"`
}
