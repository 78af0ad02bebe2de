package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/analytics"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
)

// ActivityUsecase defines the activity use cases. Every operation is scoped to
// the acting user.
type ActivityUsecase interface {
	ListActivities(ctx context.Context, userID string, params ListActivitiesParams) (*ActivityPage, error)
	GetActivity(ctx context.Context, userID, id string) (*model.Activity, error)
	CreateActivity(ctx context.Context, userID string, params CreateActivityParams) (*model.Activity, error)
	UpdateActivity(ctx context.Context, userID, id string, params UpdateActivityParams) (*model.Activity, error)
	DeleteActivity(ctx context.Context, userID, id string) error
	ExportActivities(ctx context.Context, userID string, params ExportActivitiesParams, w io.Writer) error
	GetStats(ctx context.Context, userID string, year int) (*analytics.Stats, error)
}

// ActivityFilter holds the optional listing filters. Empty strings are ignored.
type ActivityFilter struct {
	Search string
	Type   string
	From   *time.Time
	To     *time.Time
}

// ListActivitiesParams defines a page request. Page and Limit below 1 fall
// back to their defaults; Limit is clamped to the configured maximum.
type ListActivitiesParams struct {
	Filter    ActivityFilter
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ExportActivitiesParams selects activities to export without pagination.
type ExportActivitiesParams struct {
	Filter    ActivityFilter
	SortBy    string
	SortOrder string
}

// CreateActivityParams defines a new activity. A nil Date means now.
type CreateActivityParams struct {
	Type        string
	Name        string
	Description string
	Amount      float64
	Unit        string
	CarbonCO2   float64
	Date        *time.Time
}

// UpdateActivityParams changes only the non-nil fields.
type UpdateActivityParams = repository.UpdateActivityParams

// ActivityPage is one page of a listing.
type ActivityPage struct {
	Activities []*model.Activity
	Page       int
	Limit      int
	Total      int64
	TotalPages int64
}

// QueryLimits bounds listing and aggregation queries.
type QueryLimits struct {
	DefaultPageLimit int
	MaxPageLimit     int
	FetchLimit       int
}

const (
	sortOrderAsc  = "asc"
	sortOrderDesc = "desc"
)

type activityUsecase struct {
	activityRepo repository.ActivityRepository
	limits       QueryLimits
	now          func() time.Time
}

func NewActivityUsecase(activityRepo repository.ActivityRepository, limits QueryLimits) ActivityUsecase {
	return &activityUsecase{
		activityRepo: activityRepo,
		limits:       limits,
		now:          time.Now,
	}
}

func (u *activityUsecase) ListActivities(
	ctx context.Context,
	userID string,
	params ListActivitiesParams,
) (*ActivityPage, error) {
	filter, err := u.filterParams(userID, params.Filter, params.SortBy, params.SortOrder)
	if err != nil {
		return nil, err
	}

	page, limit := Paginate(params.Page, params.Limit, u.limits.DefaultPageLimit, u.limits.MaxPageLimit)
	filter.Limit = uint64(limit)
	filter.Offset = pageOffset(page, limit)

	activities, total, err := u.activityRepo.ListActivities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return &ActivityPage{
		Activities: activities,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}, nil
}

func (u *activityUsecase) GetActivity(ctx context.Context, userID, id string) (*model.Activity, error) {
	activity, err := u.activityRepo.GetActivity(ctx, userID, id)
	if err != nil {
		return nil, mapActivityError("failed to get activity", err)
	}

	return activity, nil
}

func (u *activityUsecase) CreateActivity(
	ctx context.Context,
	userID string,
	params CreateActivityParams,
) (*model.Activity, error) {
	date := u.now()
	if params.Date != nil {
		date = *params.Date
	}

	activity, err := u.activityRepo.CreateActivity(ctx, &model.Activity{
		UserID:      userID,
		Type:        strings.TrimSpace(params.Type),
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Amount:      params.Amount,
		Unit:        strings.TrimSpace(params.Unit),
		CarbonCO2:   params.CarbonCO2,
		Date:        date.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

func (u *activityUsecase) UpdateActivity(
	ctx context.Context,
	userID, id string,
	params UpdateActivityParams,
) (*model.Activity, error) {
	params.Type = trimmed(params.Type)
	params.Name = trimmed(params.Name)
	params.Unit = trimmed(params.Unit)

	activity, err := u.activityRepo.UpdateActivity(ctx, userID, id, params)
	if err != nil {
		return nil, mapActivityError("failed to update activity", err)
	}

	return activity, nil
}

func (u *activityUsecase) DeleteActivity(ctx context.Context, userID, id string) error {
	if err := u.activityRepo.DeleteActivity(ctx, userID, id); err != nil {
		return mapActivityError("failed to delete activity", err)
	}

	return nil
}

func (u *activityUsecase) ExportActivities(
	ctx context.Context,
	userID string,
	params ExportActivitiesParams,
	w io.Writer,
) error {
	filter, err := u.filterParams(userID, params.Filter, params.SortBy, params.SortOrder)
	if err != nil {
		return err
	}
	filter.Limit = uint64(u.limits.FetchLimit)

	activities, _, err := u.activityRepo.ListActivities(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	return analytics.WriteCSV(w, activities)
}

func (u *activityUsecase) GetStats(ctx context.Context, userID string, year int) (*analytics.Stats, error) {
	activities, _, err := u.activityRepo.ListActivities(ctx, repository.FilterActivitiesParams{
		UserID:   userID,
		SortBy:   repository.SortByDate,
		SortDesc: true,
		Limit:    uint64(u.limits.FetchLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	stats := analytics.Aggregate(activities, analytics.Options{Year: year, Now: u.now()})
	return &stats, nil
}

func (u *activityUsecase) filterParams(
	userID string,
	filter ActivityFilter,
	sortBy, sortOrder string,
) (repository.FilterActivitiesParams, error) {
	params := repository.FilterActivitiesParams{
		UserID:   userID,
		SortBy:   repository.SortByDate,
		SortDesc: true,
		From:     filter.From,
		To:       filter.To,
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		params.Search = &search
	}
	if typ := strings.TrimSpace(filter.Type); typ != "" {
		params.Type = &typ
	}

	if sortBy != "" {
		field, ok := repository.ParseSortField(sortBy)
		if !ok {
			return params, fmt.Errorf("%w: unknown sortBy %q", ErrInvalidQuery, sortBy)
		}
		params.SortBy = field
	}

	switch strings.ToLower(sortOrder) {
	case "", sortOrderDesc:
		params.SortDesc = true
	case sortOrderAsc:
		params.SortDesc = false
	default:
		return params, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidQuery)
	}

	return params, nil
}

// Paginate coerces a requested page and limit. Values below 1 fall back to
// page 1 and defaultLimit; limits above maxLimit are clamped.
func Paginate(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// pageOffset returns (page-1)*limit, saturating at math.MaxInt64 so a huge
// page selects past the end of any result set instead of wrapping around.
func pageOffset(page, limit int) uint64 {
	if page < 1 || limit < 1 {
		return 0
	}
	skip := uint64(page - 1)
	if skip > math.MaxInt64/uint64(limit) {
		return math.MaxInt64
	}
	return skip * uint64(limit)
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

func mapActivityError(msg string, err error) error {
	if errors.Is(err, repository.ErrActivityNotFound) {
		return ErrActivityNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
