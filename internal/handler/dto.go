package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/money"
	"github.com/Dan9191/bank-cards/internal/service"
)

type CardResponse struct {
	ID               uuid.UUID   `json:"id"`
	MaskedCardNumber string      `json:"maskedCardNumber"`
	ExpirationDate   string      `json:"expirationDate"`
	Status           string      `json:"status"`
	Balance          json.Number `json:"balance"`
}

type BalanceResponse struct {
	CardID  uuid.UUID   `json:"cardId"`
	Balance json.Number `json:"balance"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

type JwtResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Roles        []string  `json:"roles"`
}

// PagedResponse is one page of T.
type PagedResponse[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"page_number"`
	PageSize      int  `json:"page_size"`
	TotalElements int  `json:"total_elements"`
	TotalPages    int  `json:"total_pages"`
	IsLast        bool `json:"is_last"`
}

type TransferRequest struct {
	FromCardID uuid.UUID       `json:"fromCardId" validate:"required"`
	ToCardID   uuid.UUID       `json:"toCardId" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type CreateCardRequest struct {
	OwnerID        uuid.UUID        `json:"ownerId" validate:"required"`
	CardNumber     string           `json:"cardNumber" validate:"required,numeric,len=16"`
	ExpirationDate models.YearMonth `json:"expirationDate"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdateRolesRequest struct {
	Roles []models.Role `json:"roles" validate:"required,min=1,dive,oneof=USER ADMIN"`
}

func amountJSON(d decimal.Decimal) json.Number {
	return json.Number(money.Format(d))
}

func toCardResponse(v *models.CardView) CardResponse {
	return CardResponse{
		ID:               v.ID,
		MaskedCardNumber: v.MaskedNumber,
		ExpirationDate:   v.Expiration.String(),
		Status:           v.Status.String(),
		Balance:          amountJSON(v.Balance),
	}
}

func rolesOf(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Roles:     rolesOf(u.Roles),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

func toJwtResponse(p *service.TokenPair) JwtResponse {
	return JwtResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    p.ExpiresAt,
		ID:           p.User.ID,
		Username:     p.User.Username,
		Roles:        rolesOf(p.User.Roles),
	}
}

func toPaged[S, T any](res *models.PageResult[S], conv func(S) T) PagedResponse[T] {
	content := make([]T, 0, len(res.Items))
	for _, item := range res.Items {
		content = append(content, conv(item))
	}
	return PagedResponse[T]{
		Content:       content,
		PageNumber:    res.Page.Number,
		PageSize:      res.Page.Size,
		TotalElements: res.Total,
		TotalPages:    res.TotalPages(),
		IsLast:        res.IsLast(),
	}
}
