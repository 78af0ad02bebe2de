package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/payload"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/utilities"
)

// ActivityHandler serves the /activities routes.
type ActivityHandler struct {
	activityUsecase usecase.ActivityUsecase
	validator       Validator
}

func NewActivityHandler(activityUsecase usecase.ActivityUsecase, validator Validator) *ActivityHandler {
	return &ActivityHandler{activityUsecase: activityUsecase, validator: validator}
}

func (h *ActivityHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListActivities)
	r.Post("/", h.CreateActivity)
	r.Get("/stats", h.GetStats)
	r.Get("/export", h.ExportActivities)
	r.Get("/{activityID}", h.GetActivity)
	r.Put("/{activityID}", h.UpdateActivity)
	r.Delete("/{activityID}", h.DeleteActivity)
}

func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter, err := parseFilter(query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.activityUsecase.ListActivities(r.Context(), userID, usecase.ListActivitiesParams{
		Filter:    filter,
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
		Page:      atoiOrZero(query.Get("page")),
		Limit:     atoiOrZero(query.Get("limit")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.ListActivitiesResponse{
		Activities: payload.NewActivityResponses(page.Activities),
		Pagination: payload.Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	activity, err := h.activityUsecase.GetActivity(r.Context(), userID, chi.URLParam(r, "activityID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewActivityResponse(activity))
}

func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req payload.CreateActivityRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	params := usecase.CreateActivityParams{
		Type:      req.Type,
		Name:      req.Name,
		Amount:    float64(*req.Amount),
		Unit:      req.Unit,
		CarbonCO2: float64(*req.CarbonCO2),
		Date:      req.Date.Time(),
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	activity, err := h.activityUsecase.CreateActivity(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, payload.NewActivityResponse(activity))
}

func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req payload.UpdateActivityRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	activity, err := h.activityUsecase.UpdateActivity(r.Context(), userID, chi.URLParam(r, "activityID"),
		usecase.UpdateActivityParams{
			Type:        req.Type,
			Name:        req.Name,
			Description: req.Description,
			Amount:      req.Amount.Float64(),
			Unit:        req.Unit,
			CarbonCO2:   req.CarbonCO2.Float64(),
			Date:        req.Date.Time(),
		})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewActivityResponse(activity))
}

func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.activityUsecase.DeleteActivity(r.Context(), userID, chi.URLParam(r, "activityID")); err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.MessageResponse{Message: "Activity deleted successfully"})
}

func (h *ActivityHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var year int
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			writeError(w, r, fmt.Errorf("%w: year must be between 1 and 9999", usecase.ErrInvalidQuery))
			return
		}
		year = parsed
	}

	stats, err := h.activityUsecase.GetStats(r.Context(), userID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.NewStatsResponse(stats))
}

func (h *ActivityHandler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter, err := parseFilter(query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.activityUsecase.ExportActivities(r.Context(), userID, usecase.ExportActivitiesParams{
		Filter:    filter,
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}, &buf); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="activities.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseFilter(query url.Values) (usecase.ActivityFilter, error) {
	filter := usecase.ActivityFilter{
		Search: query.Get("search"),
		Type:   query.Get("type"),
	}

	if raw := query.Get("startDate"); raw != "" {
		from, err := payload.ParseTime(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid startDate", usecase.ErrInvalidQuery)
		}
		filter.From = &from
	}

	if raw := query.Get("endDate"); raw != "" {
		to, err := payload.ParseTime(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid endDate", usecase.ErrInvalidQuery)
		}
		filter.To = &to
	}

	return filter, nil
}

// atoiOrZero parses s, returning 0 for anything that is not an integer so the
// caller falls back to its default.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
