package payload

import (
	"time"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/analytics"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
)

type CreateActivityRequest struct {
	Type        string     `json:"type"        validate:"required,notblank,max=50"`
	Name        string     `json:"name"        validate:"required,notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Amount      *Number    `json:"amount"      validate:"required,gte=0"`
	Unit        string     `json:"unit"        validate:"required,notblank,max=50"`
	CarbonCO2   *Number    `json:"carbonCO2"   validate:"required,gte=0"`
	Date        *Timestamp `json:"date"`
}

// UpdateActivityRequest carries a partial update; absent fields keep their value.
type UpdateActivityRequest struct {
	Type        *string    `json:"type"        validate:"omitempty,notblank,max=50"`
	Name        *string    `json:"name"        validate:"omitempty,notblank,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Amount      *Number    `json:"amount"      validate:"omitempty,gte=0"`
	Unit        *string    `json:"unit"        validate:"omitempty,notblank,max=50"`
	CarbonCO2   *Number    `json:"carbonCO2"   validate:"omitempty,gte=0"`
	Date        *Timestamp `json:"date"`
}

type ActivityResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Unit        string    `json:"unit"`
	CarbonCO2   float64   `json:"carbonCO2"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ListActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Pagination Pagination         `json:"pagination"`
}

type StatsResponse struct {
	Year                 int                     `json:"year"`
	Count                int                     `json:"count"`
	TotalCO2             float64                 `json:"totalCO2"`
	ByCategory           map[string]float64      `json:"byCategory"`
	Monthly              []analytics.MonthBucket `json:"monthly"`
	MonthlyAverage       float64                 `json:"monthlyAverage"`
	BestMonth            *analytics.MonthBucket  `json:"bestMonth"`
	WorstMonth           *analytics.MonthBucket  `json:"worstMonth"`
	TopActivities        []ActivityResponse      `json:"topActivities"`
	Performance          []analytics.Performance `json:"performance"`
	ThisMonthCO2         float64                 `json:"thisMonthCO2"`
	LastMonthCO2         float64                 `json:"lastMonthCO2"`
	MonthOverMonthChange float64                 `json:"monthOverMonthChange"`
}

func NewActivityResponse(activity *model.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          activity.ID,
		UserID:      activity.UserID,
		Type:        activity.Type,
		Name:        activity.Name,
		Description: activity.Description,
		Amount:      activity.Amount,
		Unit:        activity.Unit,
		CarbonCO2:   activity.CarbonCO2,
		Date:        activity.Date.UTC(),
		CreatedAt:   activity.CreatedAt.UTC(),
		UpdatedAt:   activity.UpdatedAt.UTC(),
	}
}

func NewActivityResponses(activities []*model.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}
	return responses
}

func NewStatsResponse(stats *analytics.Stats) StatsResponse {
	return StatsResponse{
		Year:                 stats.Year,
		Count:                stats.Count,
		TotalCO2:             stats.TotalCO2,
		ByCategory:           stats.ByCategory,
		Monthly:              stats.Monthly[:],
		MonthlyAverage:       stats.MonthlyAverage,
		BestMonth:            stats.BestMonth,
		WorstMonth:           stats.WorstMonth,
		TopActivities:        NewActivityResponses(stats.TopActivities),
		Performance:          stats.Performance,
		ThisMonthCO2:         stats.ThisMonthCO2,
		LastMonthCO2:         stats.LastMonthCO2,
		MonthOverMonthChange: stats.MonthOverMonthChange,
	}
}
