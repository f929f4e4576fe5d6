package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/service"
)

// CreateCard handles POST /api/admin/cards
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	if req.ExpirationDate.IsZero() {
		middleware.WriteError(w, r, h.log, apperror.New(apperror.KindValidation, "Validation failed").
			With("expirationDate", "This field is required"))
		return
	}
	view, err := h.admin.CreateCard(r.Context(), service.CreateCardCommand{
		OwnerID:        req.OwnerID,
		CardNumber:     req.CardNumber,
		Expiration:     req.ExpirationDate,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toCardResponse(view))
}

func (h *Handler) writeCardPage(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, page models.Page) (*models.PageResult[*models.CardView], error)) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	res, err := list(r.Context(), page)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toPaged(res, toCardResponse))
}

// ListCards handles GET /api/admin/cards
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	h.writeCardPage(w, r, h.admin.ListCards)
}

// ListUserCards handles GET /api/admin/users/{userId}/cards
func (h *Handler) ListUserCards(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	h.writeCardPage(w, r, func(ctx context.Context, page models.Page) (*models.PageResult[*models.CardView], error) {
		return h.admin.ListUserCards(ctx, userID, page)
	})
}

// ListCardsByStatus handles GET /api/admin/cards/status/{status}
func (h *Handler) ListCardsByStatus(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["status"]
	status, err := models.ParseCardStatus(raw)
	if err != nil {
		middleware.WriteError(w, r, h.log, apperror.Wrap(err, apperror.KindValidation, "Unknown card status "+raw).
			With("status", "must be one of ACTIVE BLOCK_REQUESTED BLOCKED EXPIRED"))
		return
	}
	h.writeCardPage(w, r, func(ctx context.Context, page models.Page) (*models.PageResult[*models.CardView], error) {
		return h.admin.ListCardsByStatus(ctx, status, page)
	})
}

func (h *Handler) cardAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, cardID uuid.UUID) (*models.CardView, error)) {
	cardID, err := pathUUID(r, "cardId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	view, err := action(r.Context(), cardID)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toCardResponse(view))
}

// ActivateCard handles POST /api/admin/cards/{cardId}/activate
func (h *Handler) ActivateCard(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.admin.ActivateCard)
}

// ConfirmBlock handles POST /api/admin/cards/{cardId}/block/confirm
func (h *Handler) ConfirmBlock(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.admin.ConfirmBlock)
}

// DeclineBlock handles POST /api/admin/cards/{cardId}/block/decline
func (h *Handler) DeclineBlock(w http.ResponseWriter, r *http.Request) {
	h.cardAction(w, r, h.admin.DeclineBlock)
}

// DeleteCard handles DELETE /api/admin/cards/{cardId}
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathUUID(r, "cardId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	if err := h.admin.DeleteCard(r.Context(), cardID); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	res, err := h.admin.ListUsers(r.Context(), page)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toPaged(res, toUserResponse))
}

func (h *Handler) userAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, userID uuid.UUID) (*models.User, error)) {
	userID, err := pathUUID(r, "userId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	user, err := action(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// GetUser handles GET /api/admin/users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.admin.GetUser)
}

// UpdateRoles handles PUT /api/admin/users/{userId}/roles
func (h *Handler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	var req UpdateRolesRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	h.userAction(w, r, func(ctx context.Context, userID uuid.UUID) (*models.User, error) {
		return h.admin.UpdateRoles(ctx, userID, req.Roles)
	})
}

// LockUser handles POST /api/admin/users/{userId}/lock
func (h *Handler) LockUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.admin.LockUser)
}

// UnlockUser handles POST /api/admin/users/{userId}/unlock
func (h *Handler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.admin.UnlockUser)
}
