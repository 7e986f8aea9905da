package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/domain/leave"
	"github.com/neljohncereradeveloper/ampc-hris-sub000/internal/handler/http/response"
	leaveService "github.com/neljohncereradeveloper/ampc-hris-sub000/internal/service/leave"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)

	CreateBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	LookupBalance(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)
	ListBalanceTransactions(w http.ResponseWriter, r *http.Request)
	CloseBalance(w http.ResponseWriter, r *http.Request)
	CloseBalancesForEmployee(w http.ResponseWriter, r *http.Request)

	ResetYear(w http.ResponseWriter, r *http.Request)
	GenerateBalances(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveService.RequestService
	balanceService *leaveService.BalanceService
	yearService    *leaveService.YearService
}

func NewLeaveHandler(
	requestService *leaveService.RequestService,
	balanceService *leaveService.BalanceService,
	yearService *leaveService.YearService,
) LeaveHandler {
	return &LeaveHandlerImpl{
		requestService: requestService,
		balanceService: balanceService,
		yearService:    yearService,
	}
}

// actorFromContext pulls the acting employee's ID out of the JWT claims.
func actorFromContext(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}

	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		return employeeID, true
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if actorID, ok := actorFromContext(r); ok && req.EmployeeID == "" {
		req.EmployeeID = actorID
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.requestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = requestID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := l.requestService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	request, err := l.requestService.GetByID(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if request == nil {
		response.NotFound(w, "Leave request not found")
		return
	}

	response.Success(w, request)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.RequestFilter{
		Page:      parseIntQuery(r, "page", 1),
		Limit:     parseIntQuery(r, "limit", 20),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("leave_type_id"); v != "" {
		filter.LeaveTypeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.EndDate = &t
		}
	}

	requests, total, err := l.requestService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, response.NewMeta(filter.Page, filter.Limit, total))
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.decideRequest(w, r, l.requestService.Approve, "Leave request approved successfully")
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.decideRequest(w, r, l.requestService.Reject, "Leave request rejected successfully")
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	l.decideRequest(w, r, l.requestService.Cancel, "Leave request cancelled successfully")
}

type decisionFunc func(ctx context.Context, requestID, actorID string, decision leave.DecisionRequest) (leave.LeaveRequest, error)

func (l *LeaveHandlerImpl) decideRequest(w http.ResponseWriter, r *http.Request, decide decisionFunc, message string) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	var decision leave.DecisionRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&decision); err != nil {
			slog.Error("decision decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	request, err := decide(r.Context(), requestID, actorID, decision)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, request)
}

// CreateBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateBalance(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	var req leave.CreateLeaveBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.balanceService.Create(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave balance created successfully", created)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	balanceID := chi.URLParam(r, "id")
	if balanceID == "" {
		response.BadRequest(w, "Leave balance ID is required", nil)
		return
	}

	balance, err := l.balanceService.GetByID(r.Context(), balanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if balance == nil {
		response.NotFound(w, "Leave balance not found")
		return
	}

	response.Success(w, balance)
}

// LookupBalance implements LeaveHandler. It resolves the single balance
// held by one employee for one leave type and year.
func (l *LeaveHandlerImpl) LookupBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	leaveTypeID := r.URL.Query().Get("leave_type_id")
	year := r.URL.Query().Get("year")
	if employeeID == "" || leaveTypeID == "" || year == "" {
		response.BadRequest(w, "employee_id, leave_type_id and year are required", nil)
		return
	}

	balance, err := l.balanceService.GetByEmployeeTypeYear(r.Context(), employeeID, leaveTypeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if balance == nil {
		response.NotFound(w, "Leave balance not found")
		return
	}

	response.Success(w, balance)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	filter := leave.BalanceFilter{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", 20),
	}

	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("leave_type_id"); v != "" {
		filter.LeaveTypeID = &v
	}
	if v := r.URL.Query().Get("year"); v != "" {
		filter.Year = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}

	balances, total, err := l.balanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, balances, response.NewMeta(filter.Page, filter.Limit, total))
}

// ListBalanceTransactions implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalanceTransactions(w http.ResponseWriter, r *http.Request) {
	balanceID := chi.URLParam(r, "id")
	if balanceID == "" {
		response.BadRequest(w, "Leave balance ID is required", nil)
		return
	}

	txns, err := l.balanceService.ListTransactions(r.Context(), balanceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, txns)
}

// CloseBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) CloseBalance(w http.ResponseWriter, r *http.Request) {
	balanceID := chi.URLParam(r, "id")
	if balanceID == "" {
		response.BadRequest(w, "Leave balance ID is required", nil)
		return
	}

	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	if err := l.balanceService.Close(r.Context(), balanceID, actorID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance closed successfully", nil)
}

// CloseBalancesForEmployee implements LeaveHandler.
func (l *LeaveHandlerImpl) CloseBalancesForEmployee(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	var req leave.CloseBalancesForEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CloseBalancesForEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	closed, err := l.balanceService.CloseForEmployee(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances closed successfully", map[string]int{
		"closed_count": closed,
	})
}

// ResetYear implements LeaveHandler.
func (l *LeaveHandlerImpl) ResetYear(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	var req leave.ResetYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ResetYear decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	closed, err := l.yearService.ResetYear(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave year reset successfully", map[string]int{
		"closed_count": closed,
	})
}

// GenerateBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GenerateBalances(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor identity is required")
		return
	}

	var req leave.GenerateBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateBalances decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.yearService.GenerateForAllEmployees(r.Context(), req, actorID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balances generated successfully", result)
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
