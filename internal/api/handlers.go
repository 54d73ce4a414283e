package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ashraf7ussein/RoscaBackend/internal/auth"
	"github.com/Ashraf7ussein/RoscaBackend/internal/engine"
	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage"
)

// dateLayout is the calendar representation accepted for start/end dates.
const dateLayout = "2006-01-02"

var errMissingFields = errors.New("missing required fields")

type scheduleRequest struct {
	Name           string  `json:"name"`
	MemberCapacity int     `json:"memberCapacity"`
	MonthlyAmount  float64 `json:"monthlyAmount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
}

func (r *scheduleRequest) validate() (start, end time.Time, err error) {
	if r.Name == "" || r.MemberCapacity <= 0 || r.MonthlyAmount <= 0 || r.StartDate == "" || r.EndDate == "" {
		return start, end, errMissingFields
	}
	if start, err = time.Parse(dateLayout, r.StartDate); err != nil {
		return start, end, err
	}
	end, err = time.Parse(dateLayout, r.EndDate)
	return start, end, err
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := a.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := req.validate()
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	claims := getClaims(r.Context())
	group, err := a.groups.Create(r.Context(), engine.GroupParams{
		Name:           req.Name,
		MemberCapacity: req.MemberCapacity,
		MonthlyAmount:  req.MonthlyAmount,
		StartDate:      start,
		EndDate:        end,
	}, claims.UserID, claims.DisplayName)
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusCreated, map[string]any{"rosca": group})
}

func (a *API) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvitationCode string `json:"invitationCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.InvitationCode == "" {
		respondError(w, http.StatusBadRequest, errMissingFields)
		return
	}

	claims := getClaims(r.Context())
	group, err := a.groups.Join(r.Context(), req.InvitationCode, claims.UserID, claims.DisplayName)
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := a.groups.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleListByUser(w http.ResponseWriter, r *http.Request) {
	groups, err := a.groups.ListByMember(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	if len(groups) == 0 {
		respondError(w, http.StatusNotFound, errors.New("no roscas found for this user"))
		return
	}
	respond(w, http.StatusOK, map[string]any{"roscas": groups})
}

func (a *API) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	start, end, err := req.validate()
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	group, err := a.groups.UpdateSchedule(r.Context(), mux.Vars(r)["id"], engine.ScheduleUpdate{
		Name:           req.Name,
		MemberCapacity: req.MemberCapacity,
		MonthlyAmount:  req.MonthlyAmount,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	group, err := a.groups.SetStatus(r.Context(), mux.Vars(r)["id"], models.GroupStatus(req.Status))
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleSetMemberStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	vars := mux.Vars(r)
	group, err := a.groups.SetMemberStatus(r.Context(), vars["id"], vars["userId"], models.MemberStatus(req.Status))
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, err := a.groups.RemoveMember(r.Context(), vars["id"], vars["userId"])
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

func (a *API) handleTransferAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewAdminID string `json:"newAdminId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	group, err := a.groups.TransferAdmin(r.Context(), mux.Vars(r)["id"], req.NewAdminID)
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

// handleSettle marks one of the caller's own obligations as paid.
func (a *API) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CounterpartyID string `json:"counterpartyId"`
		Period         string `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.CounterpartyID == "" || req.Period == "" {
		respondError(w, http.StatusBadRequest, errMissingFields)
		return
	}

	claims := getClaims(r.Context())
	group, err := a.groups.SettleObligation(r.Context(), mux.Vars(r)["id"], claims.UserID, req.CounterpartyID, period.Key(req.Period))
	if err != nil {
		respondError(w, statusForError(err), err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"rosca": group})
}

// statusForError maps engine, storage and auth errors onto HTTP status codes.
func statusForError(err error) int {
	var invariant *engine.InvariantError
	switch {
	case errors.As(err, &invariant):
		return http.StatusInternalServerError
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, engine.ErrMemberNotFound),
		errors.Is(err, engine.ErrObligationNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicateMember),
		errors.Is(err, engine.ErrInvalidTransition),
		errors.Is(err, engine.ErrIllegalTransition),
		errors.Is(err, engine.ErrAlreadyAssigned),
		errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, period.ErrInvalidRange),
		errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, payload map[string]any) {
	payload["success"] = true
	writeJSON(w, status, payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
