package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/money"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/utils"
)

// CreateCardCommand issues a new card to OwnerID.
type CreateCardCommand struct {
	OwnerID        uuid.UUID
	CardNumber     string
	Expiration     models.YearMonth
	InitialBalance *decimal.Decimal
}

// AdminService serves administrative card and user operations.
type AdminService struct {
	cards  CardStore
	users  UserStore
	tx     TxRunner
	status *StatusMachine
	cipher NumberCipher
	cache  CardCache
	log    *logrus.Logger
	now    func() time.Time
}

// NewAdminService initializes the admin service. cache may be nil.
func NewAdminService(cards CardStore, users UserStore, tx TxRunner, status *StatusMachine, cipher NumberCipher,
	cache CardCache, log *logrus.Logger) *AdminService {
	if cache == nil {
		cache = noopCache{}
	}
	return &AdminService{
		cards:  cards,
		users:  users,
		tx:     tx,
		status: status,
		cipher: cipher,
		cache:  cache,
		log:    log,
		now:    time.Now,
	}
}

func validCardNumber(number string) bool {
	if len(number) != 16 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CreateCard issues an ACTIVE card. The number must be unique among active cards.
func (s *AdminService) CreateCard(ctx context.Context, cmd CreateCardCommand) (*models.CardView, error) {
	masked := utils.MaskCardNumber(cmd.CardNumber)
	logger := s.log.WithFields(logrus.Fields{"owner_id": cmd.OwnerID, "card_number": masked})
	logger.Info("Creating card")

	if !validCardNumber(cmd.CardNumber) {
		return nil, apperror.New(apperror.KindValidation, "Card number must be 16 digits").
			With("cardNumber", "must be 16 digits")
	}
	if cmd.Expiration.IsZero() || !cmd.Expiration.After(models.YearMonthOf(s.now())) {
		return nil, apperror.New(apperror.KindValidation, "Expiration date must be in the future").
			With("expirationDate", "must be in the future")
	}
	balance := decimal.Zero
	if cmd.InitialBalance != nil {
		balance = money.Normalize(*cmd.InitialBalance)
	}
	if balance.IsNegative() {
		return nil, apperror.New(apperror.KindValidation, "Initial balance cannot be negative").
			With("initialBalance", "must be zero or positive")
	}

	hash := s.cipher.Hash(cmd.CardNumber)
	exists, err := s.cards.ExistsByNumberHash(ctx, hash, false)
	if err != nil {
		return nil, translate(err, "Card", masked)
	}
	if exists {
		return nil, apperror.New(apperror.KindConflict, "Active card already exists with number "+masked)
	}
	if _, err := s.users.GetByID(ctx, cmd.OwnerID); err != nil {
		return nil, translate(err, "User", cmd.OwnerID)
	}

	encrypted, err := s.cipher.Encrypt(cmd.CardNumber)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "Failed to encrypt card number")
	}
	card := &models.Card{
		NumberCipher: encrypted,
		NumberHash:   hash,
		Expiration:   cmd.Expiration,
		Status:       models.CardStatusActive,
		Balance:      balance,
		Active:       true,
		OwnerID:      cmd.OwnerID,
	}
	if err := s.cards.Create(ctx, card); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.New(apperror.KindConflict, "Active card already exists with number "+masked)
		}
		return nil, translate(err, "Card", masked)
	}

	logger.WithField("card_id", card.ID).Info("Card created")
	return viewOf(s.cipher, card)
}

func (s *AdminService) listCards(ctx context.Context, filter models.CardFilter, page models.Page) (*models.PageResult[*models.CardView], error) {
	page = page.Normalize()
	filter.IncludeInactive = true
	cards, total, err := s.cards.List(ctx, filter, page)
	if err != nil {
		return nil, translate(err, "Card", nil)
	}
	views, err := viewsOf(s.cipher, cards)
	if err != nil {
		return nil, err
	}
	return &models.PageResult[*models.CardView]{Items: views, Total: total, Page: page}, nil
}

// ListCards returns one page of all cards, soft-deleted included.
func (s *AdminService) ListCards(ctx context.Context, page models.Page) (*models.PageResult[*models.CardView], error) {
	return s.listCards(ctx, models.CardFilter{}, page)
}

// ListUserCards returns one page of a user's cards, soft-deleted included.
func (s *AdminService) ListUserCards(ctx context.Context, userID uuid.UUID, page models.Page) (*models.PageResult[*models.CardView], error) {
	return s.listCards(ctx, models.CardFilter{OwnerID: &userID}, page)
}

// ListCardsByStatus returns one page of cards in status, soft-deleted included.
func (s *AdminService) ListCardsByStatus(ctx context.Context, status models.CardStatus, page models.Page) (*models.PageResult[*models.CardView], error) {
	return s.listCards(ctx, models.CardFilter{Status: &status}, page)
}

func (s *AdminService) changeStatus(ctx context.Context, cardID uuid.UUID, t Transition) (*models.CardView, error) {
	card, err := s.status.ChangeStatus(ctx, StatusChange{CardID: cardID, Transition: t})
	if err != nil {
		return nil, err
	}
	return viewOf(s.cipher, card)
}

func (s *AdminService) ActivateCard(ctx context.Context, cardID uuid.UUID) (*models.CardView, error) {
	return s.changeStatus(ctx, cardID, Activate)
}

func (s *AdminService) ConfirmBlock(ctx context.Context, cardID uuid.UUID) (*models.CardView, error) {
	return s.changeStatus(ctx, cardID, ConfirmBlock)
}

func (s *AdminService) DeclineBlock(ctx context.Context, cardID uuid.UUID) (*models.CardView, error) {
	return s.changeStatus(ctx, cardID, DeclineBlock)
}

// DeleteCard soft-deletes an active card under its lock.
func (s *AdminService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		card, err := s.cards.GetByIDLocked(ctx, cardID, false)
		if err != nil {
			return translate(err, "Card", cardID)
		}
		card.Active = false
		if err := s.cards.Save(ctx, card); err != nil {
			return translate(err, "Card", cardID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, []uuid.UUID{cardID})
	s.log.WithField("card_id", cardID).Info("Card soft-deleted")
	return nil
}

func (s *AdminService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "User", userID)
	}
	return user, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page models.Page) (*models.PageResult[*models.User], error) {
	page = page.Normalize()
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, translate(err, "User", nil)
	}
	return &models.PageResult[*models.User]{Items: users, Total: total, Page: page}, nil
}

func (s *AdminService) updateUser(ctx context.Context, userID uuid.UUID, mutate func(*models.User)) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "User", userID)
	}
	mutate(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err, "User", userID)
	}
	return user, nil
}

// UpdateRoles replaces the user's roles.
func (s *AdminService) UpdateRoles(ctx context.Context, userID uuid.UUID, roles []models.Role) (*models.User, error) {
	if len(roles) == 0 {
		return nil, apperror.New(apperror.KindValidation, "At least one role is required").With("roles", "must not be empty")
	}
	for _, r := range roles {
		if r != models.RoleUser && r != models.RoleAdmin {
			return nil, apperror.New(apperror.KindValidation, "Unknown role "+string(r)).With("roles", "unknown role")
		}
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "roles": roles}).Info("Updating user roles")
	return s.updateUser(ctx, userID, func(u *models.User) { u.Roles = roles })
}

func (s *AdminService) LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.log.WithField("user_id", userID).Info("Locking user")
	return s.updateUser(ctx, userID, func(u *models.User) { u.Enabled = false })
}

func (s *AdminService) UnlockUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.log.WithField("user_id", userID).Info("Unlocking user")
	return s.updateUser(ctx, userID, func(u *models.User) { u.Enabled = true })
}
