package repository

import (
	"time"
)

// SortField is an activity field listings can be ordered by.
type SortField string

const (
	SortByDate      SortField = "date"
	SortByCarbonCO2 SortField = "carbonCO2"
	SortByName      SortField = "name"
	SortByAmount    SortField = "amount"
	SortByType      SortField = "type"
	SortByUnit      SortField = "unit"
	SortByCreatedAt SortField = "createdAt"
)

// sortColumns maps API sort names to the stored field name. Both stores use the
// same snake_case names.
var sortColumns = map[SortField]string{
	SortByDate:      "date",
	SortByCarbonCO2: "carbon_co2",
	SortByName:      "name",
	SortByAmount:    "amount",
	SortByType:      "type",
	SortByUnit:      "unit",
	SortByCreatedAt: "created_at",
}

// ParseSortField returns the SortField named s, or false if it is unknown.
func ParseSortField(s string) (SortField, bool) {
	f := SortField(s)
	_, ok := sortColumns[f]
	return f, ok
}

// Column returns the stored field name, defaulting to date.
func (f SortField) Column() string {
	if col, ok := sortColumns[f]; ok {
		return col
	}
	return sortColumns[SortByDate]
}

// FilterActivitiesParams defines the parameters for filtering, sorting and paginating
// one user's activities. UserID is mandatory; every other filter is optional and
// all present filters are combined with AND.
type FilterActivitiesParams struct {
	UserID   string
	Search   *string
	Type     *string
	From     *time.Time
	To       *time.Time
	SortBy   SortField
	SortDesc bool
	Limit    uint64
	Offset   uint64
}

// UpdateActivityParams defines the optional parameters for updating an activity.
// Only the fields that are not nil will be updated.
type UpdateActivityParams struct {
	Type        *string
	Name        *string
	Description *string
	Amount      *float64
	Unit        *string
	CarbonCO2   *float64
	Date        *time.Time
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// IsEmpty reports whether no field is set.
func (p UpdateUserParams) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}
