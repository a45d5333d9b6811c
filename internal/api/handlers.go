// Package api exposes HTTP handlers for the habit service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/habits/internal/auth"
	"example.com/habits/internal/domain"
	"example.com/habits/internal/persistence"
	"example.com/habits/internal/service"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *service.Service
}

// NewHandler builds a Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/logs", h.logs)
	mux.HandleFunc("/v1/logs/", h.logByID)
	mux.HandleFunc("/v1/activity-types", h.activityTypes)
	mux.HandleFunc("/v1/activity-types/", h.activityTypeByID)
	mux.HandleFunc("/v1/stats/daily", h.dailyStats)
	mux.HandleFunc("/v1/stats/weekly", h.weeklyStats)
	mux.HandleFunc("/v1/stats/monthly", h.monthlyStats)
	mux.HandleFunc("/v1/streak", h.streak)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) logs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createLog(w, r)
	case http.MethodGet:
		h.listLogs(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createLog(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	var req CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	date, err := req.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	entry, err := h.service.RecordLog(r.Context(), service.RecordLogInput{
		OwnerID:        claims.Subject,
		ActivityTypeID: req.ActivityTypeID,
		Date:           date,
		Minutes:        req.Minutes,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrActivityTypeNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toLogView(*entry))
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeHabitsRead, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	entries, next, err := h.service.ListLogs(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]LogView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toLogView(entry))
	}
	writeJSON(w, http.StatusOK, ListLogsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) logByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/logs/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing log id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteLog(r.Context(), claims.Subject, id); err != nil {
		if errors.Is(err, domain.ErrLogNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity log not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activityTypes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listActivityTypes(w, r)
	case http.MethodPost:
		h.createActivityType(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listActivityTypes(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeHabitsRead, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	types, err := h.service.ListActivityTypes(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityTypeView, 0, len(types))
	for _, t := range types {
		items = append(items, toActivityTypeView(t))
	}
	writeJSON(w, http.StatusOK, ListActivityTypesResponse{Items: items})
}

func (h *Handler) createActivityType(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	var req CreateActivityTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	created, err := h.service.CreateActivityType(r.Context(), service.CreateActivityTypeInput{
		OwnerID:  claims.Subject,
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		Category: domain.Category(req.Category),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toActivityTypeView(*created))
}

func (h *Handler) activityTypeByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/activity-types/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity type id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteActivityType(r.Context(), claims.Subject, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrActivityTypeNotFound):
			writeError(w, http.StatusNotFound, "not_found", "activity type not found")
		case errors.Is(err, domain.ErrDefaultTypeImmutable):
			writeError(w, http.StatusForbidden, "forbidden", "system default activity types cannot be deleted")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dailyStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireStatsRead(w, r)
	if !ok {
		return
	}

	date, err := dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	daily, err := h.service.GetDaily(r.Context(), claims.Subject, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (h *Handler) weeklyStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireStatsRead(w, r)
	if !ok {
		return
	}

	anchor, err := dateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	weekly, err := h.service.GetWeekly(r.Context(), claims.Subject, anchor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

func (h *Handler) monthlyStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireStatsRead(w, r)
	if !ok {
		return
	}

	anchor := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := domain.ParseMonth(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "month must be YYYY-MM")
			return
		}
		anchor = parsed
	}

	monthly, err := h.service.GetMonthly(r.Context(), claims.Subject, anchor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, monthly)
}

func (h *Handler) streak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeHabitsRead, auth.ScopeHabitsWrite)
	if !ok {
		return
	}

	s, err := h.service.GetStreak(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStreakView(s))
}

// dateParam reads an optional YYYY-MM-DD query parameter, defaulting to today.
func dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be YYYY-MM-DD")
	}
	return date, nil
}

func requireStatsRead(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return nil, false
	}
	return requireScope(w, r, auth.ScopeHabitsRead, auth.ScopeHabitsWrite)
}

// requireScope resolves claims and checks that at least one scope matches.
func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return claims, true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scopes[0]+" required")
	return nil, false
}

// CreateLogRequest is the payload for POST /v1/logs.
type CreateLogRequest struct {
	ActivityTypeID string `json:"activity_type_id"`
	Date           string `json:"date"`
	Minutes        int    `json:"minutes"`
	Notes          string `json:"notes"`
}

// Validate ensures request correctness and parses the calendar date.
func (r CreateLogRequest) Validate() (time.Time, error) {
	if strings.TrimSpace(r.ActivityTypeID) == "" {
		return time.Time{}, errors.New("activity_type_id is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		return time.Time{}, errors.New("date is required")
	}
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	if r.Minutes < 1 {
		return time.Time{}, errors.New("minutes must be >= 1")
	}
	return date, nil
}

// CreateActivityTypeRequest is the payload for POST /v1/activity-types.
type CreateActivityTypeRequest struct {
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// Validate ensures request correctness.
func (r CreateActivityTypeRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if !domain.ValidCategory(domain.Category(r.Category)) {
		return errors.New("category must be one of: productive, leisure, health, other")
	}
	return nil
}

// LogView exposes a single activity log entry.
type LogView struct {
	LogID          string    `json:"log_id"`
	ActivityTypeID string    `json:"activity_type_id"`
	Date           string    `json:"date"`
	Minutes        int       `json:"minutes"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListLogsResponse packages list results.
type ListLogsResponse struct {
	Items      []LogView `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ActivityTypeView exposes an activity type.
type ActivityTypeView struct {
	TypeID    string `json:"type_id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Category  string `json:"category"`
	IsDefault bool   `json:"is_default"`
}

// ListActivityTypesResponse packages the visible types.
type ListActivityTypesResponse struct {
	Items []ActivityTypeView `json:"items"`
}

// StreakView exposes the consecutive-day streak. LastActiveDate is empty for
// users who have never logged.
type StreakView struct {
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toLogView(entry domain.ActivityLog) LogView {
	return LogView{
		LogID:          entry.ID,
		ActivityTypeID: entry.ActivityTypeID,
		Date:           entry.Date.Format(domain.DateLayout),
		Minutes:        entry.Minutes,
		Notes:          entry.Notes,
		CreatedAt:      entry.CreatedAt,
	}
}

func toActivityTypeView(t domain.ActivityType) ActivityTypeView {
	return ActivityTypeView{
		TypeID:    t.ID,
		Name:      t.Name,
		Icon:      t.Icon,
		Color:     t.Color,
		Category:  string(t.Category),
		IsDefault: t.IsDefault,
	}
}

func toStreakView(s domain.Streak) StreakView {
	view := StreakView{
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if !s.LastActiveDate.IsZero() {
		view.LastActiveDate = s.LastActiveDate.Format(domain.DateLayout)
	}
	return view
}
