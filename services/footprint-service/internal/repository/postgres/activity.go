package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/repository"
)

const activityColumns = "id, user_id, type, name, description, amount, unit, carbon_co2, date, created_at, updated_at"

type activityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) CreateActivity(
	ctx context.Context,
	activity *model.Activity,
) (*model.Activity, error) {
	now := time.Now().UTC()
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.Date = activity.Date.UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	const query = `INSERT INTO activities (` + activityColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.Name,
		activity.Description,
		activity.Amount,
		activity.Unit,
		activity.CarbonCO2,
		activity.Date,
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *activityRepository) GetActivity(ctx context.Context, userID, id string) (*model.Activity, error) {
	return r.queryOne(ctx, "SELECT "+activityColumns+" FROM activities WHERE id = $1 AND user_id = $2", id, userID)
}

func (r *activityRepository) ListActivities(
	ctx context.Context,
	params repository.FilterActivitiesParams,
) ([]*model.Activity, int64, error) {
	where, args := buildActivityWhere(params)

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM activities WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := buildListActivitiesQuery(params)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	activities, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.Activity])
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

func (r *activityRepository) UpdateActivity(
	ctx context.Context,
	userID, id string,
	params repository.UpdateActivityParams,
) (*model.Activity, error) {
	query, args := buildUpdateActivityQuery(userID, id, params, time.Now().UTC())
	return r.queryOne(ctx, query, args...)
}

func (r *activityRepository) DeleteActivity(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM activities WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrActivityNotFound
	}

	return nil
}

func (r *activityRepository) queryOne(ctx context.Context, query string, args ...any) (*model.Activity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	activity, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Activity])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrActivityNotFound
		}
		return nil, err
	}

	return activity, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildActivityWhere returns the WHERE clause and its positional arguments.
// The owner predicate is always the first argument.
func buildActivityWhere(params repository.FilterActivitiesParams) (string, []any) {
	clauses := []string{"user_id = $1"}
	args := []any{params.UserID}
	add := func(format string, value any) {
		args = append(args, value)
		n := len(args)
		clauses = append(clauses, strings.ReplaceAll(format, "?", fmt.Sprintf("$%d", n)))
	}

	if params.Search != nil && *params.Search != "" {
		add("(name ILIKE ? OR description ILIKE ?)", "%"+likeEscaper.Replace(*params.Search)+"%")
	}
	if params.Type != nil && *params.Type != "" {
		add("type = ?", *params.Type)
	}
	if params.From != nil {
		add("date >= ?", params.From.UTC())
	}
	if params.To != nil {
		add("date <= ?", params.To.UTC())
	}

	return strings.Join(clauses, " AND "), args
}

func buildListActivitiesQuery(params repository.FilterActivitiesParams) (string, []any) {
	where, args := buildActivityWhere(params)

	order := "ASC"
	if params.SortDesc {
		order = "DESC"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM activities WHERE %s ORDER BY %s %s, id ASC",
		activityColumns, where, params.SortBy.Column(), order)

	if params.Limit > 0 {
		args = append(args, params.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

func buildUpdateActivityQuery(
	userID, id string,
	params repository.UpdateActivityParams,
	now time.Time,
) (string, []any) {
	sets := []string{"updated_at = $1"}
	args := []any{now}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Type != nil {
		set("type", *params.Type)
	}
	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Description != nil {
		set("description", *params.Description)
	}
	if params.Amount != nil {
		set("amount", *params.Amount)
	}
	if params.Unit != nil {
		set("unit", *params.Unit)
	}
	if params.CarbonCO2 != nil {
		set("carbon_co2", *params.CarbonCO2)
	}
	if params.Date != nil {
		set("date", params.Date.UTC())
	}

	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE activities SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), activityColumns)

	return query, args
}
