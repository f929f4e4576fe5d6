package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/utils"
)

// NumberCipher protects card numbers at rest.
type NumberCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(cipher string) (string, error)
	Hash(plain string) string
}

// viewOf builds the masked projection of card.
func viewOf(cipher NumberCipher, card *models.Card) (*models.CardView, error) {
	number, err := cipher.Decrypt(card.NumberCipher)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "Failed to read card number").With("card_id", card.ID)
	}
	return &models.CardView{
		ID:           card.ID,
		MaskedNumber: utils.MaskCardNumber(number),
		Expiration:   card.Expiration,
		Status:       card.Status,
		Balance:      card.Balance,
		OwnerID:      card.OwnerID,
		Active:       card.Active,
	}, nil
}

func viewsOf(cipher NumberCipher, cards []*models.Card) ([]*models.CardView, error) {
	views := make([]*models.CardView, 0, len(cards))
	for _, card := range cards {
		view, err := viewOf(cipher, card)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// CardService serves the card owner's operations.
type CardService struct {
	cards    CardStore
	status   *StatusMachine
	transfer *TransferEngine
	cipher   NumberCipher
	cache    CardCache
	notifier Notifier
	log      *logrus.Logger
}

// NewCardService initializes the owner card service. cache and notifier may be nil.
func NewCardService(cards CardStore, status *StatusMachine, transfer *TransferEngine, cipher NumberCipher,
	cache CardCache, notifier Notifier, log *logrus.Logger) *CardService {
	if cache == nil {
		cache = noopCache{}
	}
	return &CardService{
		cards:    cards,
		status:   status,
		transfer: transfer,
		cipher:   cipher,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// ListMyCards returns one page of the owner's active cards.
func (s *CardService) ListMyCards(ctx context.Context, ownerID uuid.UUID, page models.Page) (*models.PageResult[*models.CardView], error) {
	page = page.Normalize()
	cards, total, err := s.cards.List(ctx, models.CardFilter{OwnerID: &ownerID}, page)
	if err != nil {
		return nil, translate(err, "Card", ownerID)
	}
	views, err := viewsOf(s.cipher, cards)
	if err != nil {
		return nil, err
	}
	return &models.PageResult[*models.CardView]{Items: views, Total: total, Page: page}, nil
}

// GetMyCard returns one of the owner's active cards, from cache when possible.
// The cache is filled only if no write invalidated the card while it was loaded.
func (s *CardService) GetMyCard(ctx context.Context, ownerID, cardID uuid.UUID) (*models.CardView, error) {
	if view, ok := s.cache.Get(ctx, cardID); ok && view.OwnerID == ownerID && view.Active {
		return view, nil
	}
	lease, reserved := s.cache.Reserve(ctx, cardID)
	card, err := s.cards.GetByIDForOwner(ctx, cardID, ownerID, false)
	if err != nil {
		return nil, translate(err, "Card", cardID)
	}
	view, err := viewOf(s.cipher, card)
	if err != nil {
		return nil, err
	}
	if reserved && !s.cache.Fill(ctx, lease, view) {
		s.log.WithField("card_id", cardID).Debug("Card changed while loading, view not cached")
	}
	return view, nil
}

// GetMyBalance reads the balance of one of the owner's active cards from the store.
func (s *CardService) GetMyBalance(ctx context.Context, ownerID, cardID uuid.UUID) (decimal.Decimal, error) {
	card, err := s.cards.GetByIDForOwner(ctx, cardID, ownerID, false)
	if err != nil {
		return decimal.Zero, translate(err, "Card", cardID)
	}
	return card.Balance, nil
}

// RequestBlock moves the owner's card to BLOCK_REQUESTED and notifies administrators.
// A failed notification is logged and does not fail the request.
func (s *CardService) RequestBlock(ctx context.Context, ownerID, cardID uuid.UUID) (*models.CardView, error) {
	card, err := s.status.ChangeStatus(ctx, StatusChange{CardID: cardID, Transition: RequestBlock, OwnerID: &ownerID})
	if err != nil {
		return nil, err
	}
	view, err := viewOf(s.cipher, card)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyBlockRequested(ctx, view); err != nil {
			s.log.WithError(err).WithField("card_id", cardID).Warn("Failed to send block request notification")
		}
	}
	return view, nil
}

// Transfer moves amount between two of the owner's cards.
func (s *CardService) Transfer(ctx context.Context, ownerID, fromCardID, toCardID uuid.UUID, amount decimal.Decimal) error {
	return s.transfer.Transfer(ctx, TransferCommand{
		FromCardID:  fromCardID,
		ToCardID:    toCardID,
		Amount:      amount,
		RequesterID: ownerID,
	})
}
