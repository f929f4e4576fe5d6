package service

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/metrics"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/money"
)

// TransferCommand moves Amount from one card to another card of the same owner.
type TransferCommand struct {
	FromCardID  uuid.UUID
	ToCardID    uuid.UUID
	Amount      decimal.Decimal
	RequesterID uuid.UUID
}

// TransferEngine moves money between two cards in one transaction.
// Both card locks are taken in ascending id order whatever the direction.
type TransferEngine struct {
	cards   CardStore
	tx      TxRunner
	cache   CardCache
	log     *logrus.Logger
	metrics *metrics.Metrics
}

// NewTransferEngine initializes a transfer engine. cache and m may be nil.
func NewTransferEngine(cards CardStore, tx TxRunner, cache CardCache, log *logrus.Logger, m *metrics.Metrics) *TransferEngine {
	if cache == nil {
		cache = noopCache{}
	}
	return &TransferEngine{cards: cards, tx: tx, cache: cache, log: log, metrics: m}
}

// lockOrder returns the two ids in canonical lock order.
func lockOrder(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Transfer executes cmd. Every rule is checked under lock and any violation
// aborts before either balance changes.
func (e *TransferEngine) Transfer(ctx context.Context, cmd TransferCommand) (err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = string(apperror.KindOf(err))
		}
		e.metrics.ObserveTransfer(start, result)
	}()

	amount := money.Normalize(cmd.Amount)
	logger := e.log.WithFields(logrus.Fields{
		"from_card_id": cmd.FromCardID,
		"to_card_id":   cmd.ToCardID,
		"amount":       money.Format(amount),
		"requester_id": cmd.RequesterID,
	})

	if !money.IsPositive(amount) {
		return apperror.New(apperror.KindInvalidOperation, "Transfer amount must be greater than zero").
			With("amount", money.Format(amount))
	}
	if cmd.FromCardID == cmd.ToCardID {
		return apperror.New(apperror.KindInvalidOperation, "Cannot transfer money to the same card").
			With("card_id", cmd.FromCardID)
	}

	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		locked := make(map[uuid.UUID]*models.Card, 2)
		first, second := lockOrder(cmd.FromCardID, cmd.ToCardID)
		for _, id := range []uuid.UUID{first, second} {
			card, err := e.cards.GetByIDLocked(ctx, id, false)
			if err != nil {
				return translate(err, "Card", id)
			}
			locked[id] = card
		}
		from, to := locked[cmd.FromCardID], locked[cmd.ToCardID]

		for _, card := range []*models.Card{from, to} {
			if card.OwnerID != cmd.RequesterID {
				return apperror.New(apperror.KindUnauthorized, "You can only transfer money between your own cards").
					With("card_id", card.ID)
			}
		}
		if from.Status != models.CardStatusActive {
			return apperror.New(apperror.KindInvalidOperation, "Source card is not active. Current status: "+from.Status.String()).
				With("card_id", from.ID).
				With("status", from.Status)
		}
		if from.Balance.LessThan(amount) {
			return apperror.InsufficientFunds(from.ID, amount, from.Balance)
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)
		if err := e.cards.SaveAll(ctx, []*models.Card{from, to}); err != nil {
			return translate(err, "Card", from.ID)
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("Transfer failed")
		return err
	}

	e.cache.Invalidate(ctx, []uuid.UUID{cmd.FromCardID, cmd.ToCardID})
	logger.Info("Transfer completed")
	return nil
}
