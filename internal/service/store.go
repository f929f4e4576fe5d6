package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dan9191/bank-cards/internal/models"
)

// CardStore persists cards. Every read takes an explicit includeInactive flag.
type CardStore interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error)
	GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID, includeInactive bool) (*models.Card, error)
	// GetByIDLocked holds a write lock on the card until the surrounding transaction ends.
	GetByIDLocked(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error)
	Save(ctx context.Context, card *models.Card) error
	SaveAll(ctx context.Context, cards []*models.Card) error
	ExistsByNumberHash(ctx context.Context, hash string, includeInactive bool) (bool, error)
	List(ctx context.Context, filter models.CardFilter, page models.Page) ([]*models.Card, int, error)
	ListExpiredIDs(ctx context.Context, now models.YearMonth) ([]uuid.UUID, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, page models.Page) ([]*models.User, int, error)
	Update(ctx context.Context, user *models.User) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, value string) (*models.RefreshToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// TxRunner runs fn inside one transaction. fn's ctx carries the transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CardCache holds card views for the owner read path. A reader reserves a
// missing entry before loading the card and fills it with the lease it got;
// an Invalidate in between revokes the lease so the loaded view is dropped.
type CardCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.CardView, bool)
	Reserve(ctx context.Context, id uuid.UUID) (lease string, ok bool)
	Fill(ctx context.Context, lease string, view *models.CardView) bool
	Invalidate(ctx context.Context, ids []uuid.UUID)
}

// Notifier tells administrators about pending block requests.
type Notifier interface {
	NotifyBlockRequested(ctx context.Context, card *models.CardView) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, uuid.UUID) (*models.CardView, bool) { return nil, false }
func (noopCache) Reserve(context.Context, uuid.UUID) (string, bool) { return "", false }
func (noopCache) Fill(context.Context, string, *models.CardView) bool { return false }
func (noopCache) Invalidate(context.Context, []uuid.UUID) {}
