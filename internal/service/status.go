package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/metrics"
	"github.com/Dan9191/bank-cards/internal/models"
)

// Transition describes one status use case: the target status and the
// statuses it may be reached from.
type Transition struct {
	Action  string
	Target  models.CardStatus
	Allowed []models.CardStatus
}

var (
	RequestBlock = Transition{Action: "request block", Target: models.CardStatusBlockRequested,
		Allowed: []models.CardStatus{models.CardStatusActive}}
	ConfirmBlock = Transition{Action: "confirm block", Target: models.CardStatusBlocked,
		Allowed: []models.CardStatus{models.CardStatusBlockRequested}}
	DeclineBlock = Transition{Action: "decline block", Target: models.CardStatusActive,
		Allowed: []models.CardStatus{models.CardStatusBlockRequested}}
	Activate = Transition{Action: "activate card", Target: models.CardStatusActive,
		Allowed: []models.CardStatus{models.CardStatusBlocked, models.CardStatusExpired}}
)

func (t Transition) allows(status models.CardStatus) bool {
	if len(t.Allowed) == 0 {
		return true
	}
	for _, s := range t.Allowed {
		if s == status {
			return true
		}
	}
	return false
}

// Decision is the outcome of DecideTransition.
type Decision int

const (
	// DecisionNoop leaves the card untouched.
	DecisionNoop Decision = iota
	// DecisionApply moves the card to the target status.
	DecisionApply
	// DecisionExpire stores EXPIRED instead and fails the request.
	DecisionExpire
)

// DecideTransition decides what t does to card at time now. It has no side effects.
func DecideTransition(card *models.Card, t Transition, now time.Time) (Decision, error) {
	if card.Status == t.Target {
		return DecisionNoop, nil
	}
	if !t.allows(card.Status) {
		return DecisionNoop, apperror.InvalidTransition(t.Action, card.ID, card.Status, t.Allowed)
	}
	if t.Target == models.CardStatusActive && card.IsExpired(now) {
		return DecisionExpire, nil
	}
	return DecisionApply, nil
}

// StatusChange asks for Transition on one card. A non-nil OwnerID scopes the
// lookup to that owner; a card of another owner is reported as not found.
type StatusChange struct {
	CardID     uuid.UUID
	Transition Transition
	OwnerID    *uuid.UUID
}

// StatusMachine applies status transitions under a card lock.
type StatusMachine struct {
	cards   CardStore
	tx      TxRunner
	cache   CardCache
	log     *logrus.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStatusMachine initializes a status machine. cache and m may be nil.
func NewStatusMachine(cards CardStore, tx TxRunner, cache CardCache, log *logrus.Logger, m *metrics.Metrics) *StatusMachine {
	if cache == nil {
		cache = noopCache{}
	}
	return &StatusMachine{cards: cards, tx: tx, cache: cache, log: log, metrics: m, now: time.Now}
}

func errExpired(cardID uuid.UUID) error {
	return apperror.New(apperror.KindInvalidOperation, "Operation failed because the card is expired.").
		With("card_id", cardID).
		With("status", models.CardStatusExpired)
}

// ChangeStatus applies the requested transition and returns the resulting card.
// An expired card asked to become ACTIVE is stored as EXPIRED and the call
// fails; that correction is committed.
func (m *StatusMachine) ChangeStatus(ctx context.Context, change StatusChange) (*models.Card, error) {
	logger := m.log.WithFields(logrus.Fields{
		"card_id": change.CardID,
		"action":  change.Transition.Action,
		"target":  change.Transition.Target,
	})

	var (
		result   *models.Card
		decision Decision
	)
	err := m.tx.RunInTx(ctx, func(ctx context.Context) error {
		card, err := m.cards.GetByIDLocked(ctx, change.CardID, false)
		if err != nil {
			return translate(err, "Card", change.CardID)
		}
		if change.OwnerID != nil && card.OwnerID != *change.OwnerID {
			return apperror.NotFound("Card", change.CardID)
		}

		decision, err = DecideTransition(card, change.Transition, m.now())
		if err != nil {
			return err
		}
		switch decision {
		case DecisionNoop:
			result = card
			return nil
		case DecisionExpire:
			card.Status = models.CardStatusExpired
		default:
			card.Status = change.Transition.Target
		}
		if err := m.cards.Save(ctx, card); err != nil {
			return translate(err, "Card", card.ID)
		}
		result = card
		return nil
	})
	if err != nil {
		m.metrics.IncrementStatusChange(change.Transition.Action, string(apperror.KindOf(err)))
		logger.WithError(err).Warn("Status change rejected")
		return nil, err
	}

	switch decision {
	case DecisionNoop:
		m.metrics.IncrementStatusChange(change.Transition.Action, metrics.ResultNoop)
		logger.Warnf("Card is already in target status %s", change.Transition.Target)
		return result, nil
	case DecisionExpire:
		m.cache.Invalidate(ctx, []uuid.UUID{change.CardID})
		m.metrics.IncrementStatusChange(change.Transition.Action, metrics.ResultExpired)
		m.metrics.IncrementCardsExpired()
		logger.Error("Card has expired, status updated to EXPIRED")
		return nil, errExpired(change.CardID)
	}

	m.cache.Invalidate(ctx, []uuid.UUID{change.CardID})
	m.metrics.IncrementStatusChange(change.Transition.Action, metrics.ResultSuccess)
	logger.Infof("Card status changed to %s", result.Status)
	return result, nil
}

// ExpireLapsed moves every active card past its expiration month to EXPIRED.
// Each card is corrected in its own locked transaction. It returns the number
// of cards changed.
func (m *StatusMachine) ExpireLapsed(ctx context.Context) (int, error) {
	now := m.now()
	ids, err := m.cards.ListExpiredIDs(ctx, models.YearMonthOf(now))
	if err != nil {
		return 0, translate(err, "Card", nil)
	}

	expired := 0
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		changed := false
		err := m.tx.RunInTx(ctx, func(ctx context.Context) error {
			card, err := m.cards.GetByIDLocked(ctx, id, false)
			if err != nil {
				return translate(err, "Card", id)
			}
			if card.Status == models.CardStatusExpired || !card.IsExpired(now) {
				return nil
			}
			card.Status = models.CardStatusExpired
			if err := m.cards.Save(ctx, card); err != nil {
				return translate(err, "Card", id)
			}
			changed = true
			return nil
		})
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				continue
			}
			m.log.WithError(err).WithField("card_id", id).Warn("Failed to expire card")
			errs = append(errs, err)
			continue
		}
		if changed {
			expired++
			m.cache.Invalidate(ctx, []uuid.UUID{id})
			m.metrics.IncrementCardsExpired()
		}
	}

	if expired > 0 {
		m.log.WithField("count", expired).Info("Expired lapsed cards")
	}
	return expired, errors.Join(errs...)
}
