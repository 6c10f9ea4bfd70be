// Package api exposes the service layer as a JSON HTTP API.
//
// This is a thin transport: request decoding, identity extraction and
// status-code mapping. All behavior lives in the service packages.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rgault/splitpot/internal/auth"
	"github.com/rgault/splitpot/internal/middleware"
	"github.com/rgault/splitpot/internal/models"
	"github.com/rgault/splitpot/internal/service"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	identity   *service.IdentityService
	projects   *service.ProjectService
	membership *service.MembershipService
	ledger     *service.LedgerService
	jwtManager *auth.JWTManager
}

// NewHandler creates the API handler.
func NewHandler(
	identity *service.IdentityService,
	projects *service.ProjectService,
	membership *service.MembershipService,
	ledger *service.LedgerService,
	jwtManager *auth.JWTManager,
) *Handler {
	return &Handler{
		identity:   identity,
		projects:   projects,
		membership: membership,
		ledger:     ledger,
		jwtManager: jwtManager,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	IsAdmin      bool     `json:"is_admin"`
	ProjectCodes []string `json:"myProjectCodes,omitempty"`
	Token        string   `json:"token,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, codes, err := h.identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		ID:           user.ID,
		Username:     user.Username,
		IsAdmin:      user.IsAdmin,
		ProjectCodes: codes,
		Token:        token,
	})
}

type createProjectRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	project, err := h.projects.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, createProjectRequest{Name: project.Name, Code: project.Code})
}

type memberResponse struct {
	Name         string `json:"name"`
	LinkedUserID string `json:"linkedUserId,omitempty"`
}

type expensePayload struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title,omitempty"`
	Amount      float64  `json:"amount"`
	Payer       string   `json:"payer"`
	Beneficiary string   `json:"beneficiary,omitempty"`
	Receiver    string   `json:"receiver,omitempty"`
	Involved    []string `json:"involved"`
	IsBought    bool     `json:"is_bought"`
	Date        string   `json:"date"`
}

type projectResponse struct {
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Members  []memberResponse `json:"members"`
	Expenses []expensePayload `json:"expenses"`
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	view, err := h.projects.Get(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := projectResponse{
		Code:     view.Code,
		Name:     view.Name,
		Members:  []memberResponse{},
		Expenses: []expensePayload{},
	}
	for _, m := range view.Members {
		resp.Members = append(resp.Members, memberResponse{Name: m.Name, LinkedUserID: m.LinkedUserID})
	}
	for _, e := range view.Expenses {
		resp.Expenses = append(resp.Expenses, expenseToPayload(e))
	}

	respondJSON(w, http.StatusOK, resp)
}

type joinRequest struct {
	MemberName string `json:"member_name"`
	CreateNew  bool   `json:"create_new"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (h *Handler) joinProject(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	userID := middleware.GetUserID(r.Context())

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.membership.Join(r.Context(), code, req.MemberName, req.CreateNew, userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) upsertExpense(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req expensePayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	expense := &models.Expense{
		ID:          req.ID,
		Type:        req.Type,
		Title:       req.Title,
		Amount:      req.Amount,
		Payer:       req.Payer,
		Beneficiary: req.Beneficiary,
		Receiver:    req.Receiver,
		Involved:    req.Involved,
		IsBought:    req.IsBought,
		Date:        req.Date,
	}
	if err := h.ledger.UpsertExpense(r.Context(), code, expense); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

type projectStatsResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	MemberCount  int    `json:"memberCount"`
	ExpenseCount int    `json:"expenseCount"`
}

type userStatsResponse struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	IsAdmin      bool     `json:"isAdmin"`
	ProjectCodes []string `json:"myProjectCodes"`
}

type adminStatsResponse struct {
	Projects []projectStatsResponse `json:"projects"`
	Users    []userStatsResponse    `json:"users"`
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.projects.AdminStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := adminStatsResponse{
		Projects: []projectStatsResponse{},
		Users:    []userStatsResponse{},
	}
	for _, p := range stats.Projects {
		resp.Projects = append(resp.Projects, projectStatsResponse{
			Code:         p.Code,
			Name:         p.Name,
			MemberCount:  p.MemberCount,
			ExpenseCount: p.ExpenseCount,
		})
	}
	for _, u := range stats.Users {
		resp.Users = append(resp.Users, userStatsResponse{
			ID:           u.User.ID,
			Username:     u.User.Username,
			IsAdmin:      u.User.IsAdmin,
			ProjectCodes: u.ProjectCodes,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.projects.Delete(r.Context(), code); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

type passwordResetRequest struct {
	NewPassword string `json:"new_password"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.identity.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "updated"})
}

func expenseToPayload(e *models.Expense) expensePayload {
	involved := e.Involved
	if involved == nil {
		involved = []string{}
	}
	return expensePayload{
		ID:          e.ID,
		Type:        e.Type,
		Title:       e.Title,
		Amount:      e.Amount,
		Payer:       e.Payer,
		Beneficiary: e.Beneficiary,
		Receiver:    e.Receiver,
		Involved:    involved,
		IsBought:    e.IsBought,
		Date:        e.Date,
	}
}
