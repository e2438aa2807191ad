// Package handler is the thin HTTP layer over the pool service. It decodes
// requests, resolves the caller from the auth middleware, and maps domain
// errors to HTTP. No business logic lives here.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tanda/internal/pool/models"
	id "tanda/pkg/domain"
	dErrors "tanda/pkg/domain-errors"
	"tanda/pkg/platform/httputil"
	authmw "tanda/pkg/platform/middleware/auth"
	request "tanda/pkg/platform/middleware/request"
)

// Service defines the pool operations the handler depends on.
type Service interface {
	Create(ctx context.Context, creator, backendManager id.AccountID, contributionAmount int64) (*models.Pool, error)
	Invite(ctx context.Context, caller id.AccountID, poolID id.PoolID, candidate id.AccountID) error
	Start(ctx context.Context, caller id.AccountID, poolID id.PoolID, payoutOrder []id.AccountID) error
	Contribute(ctx context.Context, caller id.AccountID, poolID id.PoolID, amount int64) (bool, error)
	TriggerPayout(ctx context.Context, caller id.AccountID, poolID id.PoolID) (models.PayoutResult, error)
	StartNextRound(ctx context.Context, caller id.AccountID, poolID id.PoolID) error
	UpdateBackendManager(ctx context.Context, caller id.AccountID, poolID id.PoolID, newManager id.AccountID) error
	Get(ctx context.Context, poolID id.PoolID) (*models.Pool, error)
	List(ctx context.Context) ([]*models.Pool, error)
}

// Handler handles pool endpoints.
type Handler struct {
	logger    *slog.Logger
	pools     Service
	validator authmw.TokenValidator
}

func New(pools Service, logger *slog.Logger, validator authmw.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		pools:     pools,
		validator: validator,
	}
}

// Register mounts the pool routes on the given router.
func (h *Handler) Register(r chi.Router) {
	poolRouter := chi.NewRouter()
	poolRouter.Use(chimiddleware.Recoverer)
	poolRouter.Use(request.RequestID)
	poolRouter.Use(chimiddleware.Timeout(30 * time.Second))
	poolRouter.Use(authmw.RequireAuth(h.validator, h.logger))

	poolRouter.Post("/", h.handleCreate)
	poolRouter.Get("/", h.handleList)
	poolRouter.Get("/{poolID}", h.handleGet)
	poolRouter.Post("/{poolID}/invite", h.handleInvite)
	poolRouter.Post("/{poolID}/start", h.handleStart)
	poolRouter.Post("/{poolID}/contributions", h.handleContribute)
	poolRouter.Post("/{poolID}/payout", h.handlePayout)
	poolRouter.Post("/{poolID}/rounds/next", h.handleStartNextRound)
	poolRouter.Put("/{poolID}/backend-manager", h.handleUpdateBackendManager)

	r.Mount("/pools", poolRouter)
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (id.AccountID, bool) {
	accountID := authmw.GetAccountID(r.Context())
	if accountID.IsNil() {
		// Only reachable when RequireAuth is missing from the chain.
		h.logger.ErrorContext(r.Context(), "caller missing from context despite auth middleware",
			"request_id", request.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.AccountID{}, false
	}
	return accountID, true
}

func (h *Handler) poolID(w http.ResponseWriter, r *http.Request) (id.PoolID, bool) {
	poolID, err := id.ParsePoolID(chi.URLParam(r, "poolID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.PoolID{}, false
	}
	return poolID, true
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req models.CreatePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	backendManager, err := id.ParseAccountID(req.BackendManager)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pool, err := h.pools.Create(ctx, caller, backendManager, req.ContributionAmount)
	if err != nil {
		h.logError(ctx, "failed to create pool", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.NewPoolResponse(pool))
}

func (h *Handler) handleInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	var req models.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	candidate, err := id.ParseAccountID(req.Candidate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.pools.Invite(ctx, caller, poolID, candidate); err != nil {
		h.logError(ctx, "failed to invite member", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	var req models.StartPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	payoutOrder := make([]id.AccountID, 0, len(req.PayoutOrder))
	for _, entry := range req.PayoutOrder {
		accountID, err := id.ParseAccountID(entry)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		payoutOrder = append(payoutOrder, accountID)
	}

	if err := h.pools.Start(ctx, caller, poolID, payoutOrder); err != nil {
		h.logError(ctx, "failed to start pool", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	var req models.ContributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	allPaid, err := h.pools.Contribute(ctx, caller, poolID, req.Amount)
	if err != nil {
		h.logError(ctx, "failed to record contribution", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"everyone_paid": allPaid})
}

func (h *Handler) handlePayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	result, err := h.pools.TriggerPayout(ctx, caller, poolID)
	if err != nil {
		h.logError(ctx, "failed to trigger payout", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStartNextRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	if err := h.pools.StartNextRound(ctx, caller, poolID); err != nil {
		h.logError(ctx, "failed to start next round", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateBackendManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	var req models.UpdateBackendManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	newManager, err := id.ParseAccountID(req.BackendManager)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.pools.UpdateBackendManager(ctx, caller, poolID, newManager); err != nil {
		h.logError(ctx, "failed to update backend manager", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.caller(w, r); !ok {
		return
	}
	poolID, ok := h.poolID(w, r)
	if !ok {
		return
	}

	pool, err := h.pools.Get(ctx, poolID)
	if err != nil {
		h.logError(ctx, "failed to load pool", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewPoolResponse(pool))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.caller(w, r); !ok {
		return
	}

	pools, err := h.pools.List(ctx)
	if err != nil {
		h.logError(ctx, "failed to list pools", err)
		httputil.WriteError(w, err)
		return
	}
	responses := make([]models.PoolResponse, 0, len(pools))
	for _, pool := range pools {
		responses = append(responses, models.NewPoolResponse(pool))
	}
	httputil.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeUnavailable) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", request.GetRequestID(ctx),
		"error", err.Error(),
	)
}
