package handler

import (
	"net/http"

	"github.com/Dan9191/bank-cards/internal/middleware"
)

// ListMyCards handles GET /api/cards/my
func (h *Handler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	page, err := pageFrom(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	res, err := h.cards.ListMyCards(r.Context(), p.UserID, page)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toPaged(res, toCardResponse))
}

// GetMyCard handles GET /api/cards/my/{cardId}
func (h *Handler) GetMyCard(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	cardID, err := pathUUID(r, "cardId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	view, err := h.cards.GetMyCard(r.Context(), p.UserID, cardID)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toCardResponse(view))
}

// GetMyBalance handles GET /api/cards/my/{cardId}/balance
func (h *Handler) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	cardID, err := pathUUID(r, "cardId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	balance, err := h.cards.GetMyBalance(r.Context(), p.UserID, cardID)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, BalanceResponse{CardID: cardID, Balance: amountJSON(balance)})
}

// RequestBlock handles POST /api/cards/my/{cardId}/block-request
func (h *Handler) RequestBlock(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	cardID, err := pathUUID(r, "cardId")
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	view, err := h.cards.RequestBlock(r.Context(), p.UserID, cardID)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toCardResponse(view))
}

// Transfer handles POST /api/cards/my/transfer
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	var req TransferRequest
	if err := h.decode(r, &req); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	if err := h.cards.Transfer(r.Context(), p.UserID, req.FromCardID, req.ToCardID, req.Amount); err != nil {
		middleware.WriteError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
