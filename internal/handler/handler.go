package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/service"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . CardService,AdminService,AuthService

// CardService is the owner facing card API.
type CardService interface {
	ListMyCards(ctx context.Context, ownerID uuid.UUID, page models.Page) (*models.PageResult[*models.CardView], error)
	GetMyCard(ctx context.Context, ownerID, cardID uuid.UUID) (*models.CardView, error)
	GetMyBalance(ctx context.Context, ownerID, cardID uuid.UUID) (decimal.Decimal, error)
	RequestBlock(ctx context.Context, ownerID, cardID uuid.UUID) (*models.CardView, error)
	Transfer(ctx context.Context, ownerID, fromCardID, toCardID uuid.UUID, amount decimal.Decimal) error
}

// AdminService is the administrator API.
type AdminService interface {
	CreateCard(ctx context.Context, cmd service.CreateCardCommand) (*models.CardView, error)
	ListCards(ctx context.Context, page models.Page) (*models.PageResult[*models.CardView], error)
	ListUserCards(ctx context.Context, userID uuid.UUID, page models.Page) (*models.PageResult[*models.CardView], error)
	ListCardsByStatus(ctx context.Context, status models.CardStatus, page models.Page) (*models.PageResult[*models.CardView], error)
	ActivateCard(ctx context.Context, cardID uuid.UUID) (*models.CardView, error)
	ConfirmBlock(ctx context.Context, cardID uuid.UUID) (*models.CardView, error)
	DeclineBlock(ctx context.Context, cardID uuid.UUID) (*models.CardView, error)
	DeleteCard(ctx context.Context, cardID uuid.UUID) error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, page models.Page) (*models.PageResult[*models.User], error)
	UpdateRoles(ctx context.Context, userID uuid.UUID, roles []models.Role) (*models.User, error)
	LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UnlockUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// AuthService handles credentials and tokens.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type Handler struct {
	cards    CardService
	admin    AdminService
	auth     AuthService
	validate *validator.Validate
	log      *logrus.Logger
}

func NewHandler(cards CardService, admin AdminService, auth AuthService, log *logrus.Logger) *Handler {
	return &Handler{cards: cards, admin: admin, auth: auth, validate: newValidator(), log: log}
}

// Routes registers every API route on r.
func (h *Handler) Routes(r *mux.Router, tokens middleware.TokenParser) {
	authMW := middleware.AuthMiddleware(tokens, h.log)

	// Public routes
	public := r.PathPrefix("/api/auth").Subrouter()
	public.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	public.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
	public.Handle("/logout", authMW(http.HandlerFunc(h.Logout))).Methods(http.MethodPost)

	// Owner routes
	cards := r.PathPrefix("/api/cards/my").Subrouter()
	cards.Use(authMW)
	cards.HandleFunc("", h.ListMyCards).Methods(http.MethodGet)
	cards.HandleFunc("/transfer", h.Transfer).Methods(http.MethodPost)
	cards.HandleFunc("/{cardId}", h.GetMyCard).Methods(http.MethodGet)
	cards.HandleFunc("/{cardId}/balance", h.GetMyBalance).Methods(http.MethodGet)
	cards.HandleFunc("/{cardId}/block-request", h.RequestBlock).Methods(http.MethodPost)

	// Admin routes
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(authMW, middleware.RequireRole(models.RoleAdmin, h.log))
	admin.HandleFunc("/cards", h.CreateCard).Methods(http.MethodPost)
	admin.HandleFunc("/cards", h.ListCards).Methods(http.MethodGet)
	admin.HandleFunc("/cards/status/{status}", h.ListCardsByStatus).Methods(http.MethodGet)
	admin.HandleFunc("/cards/{cardId}/activate", h.ActivateCard).Methods(http.MethodPost)
	admin.HandleFunc("/cards/{cardId}/block/confirm", h.ConfirmBlock).Methods(http.MethodPost)
	admin.HandleFunc("/cards/{cardId}/block/decline", h.DeclineBlock).Methods(http.MethodPost)
	admin.HandleFunc("/cards/{cardId}", h.DeleteCard).Methods(http.MethodDelete)
	admin.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}", h.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}/cards", h.ListUserCards).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}/roles", h.UpdateRoles).Methods(http.MethodPut)
	admin.HandleFunc("/users/{userId}/lock", h.LockUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{userId}/unlock", h.UnlockUser).Methods(http.MethodPost)
}
