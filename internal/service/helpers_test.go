package service

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/utils"
)

// fixedNow is the clock used by tests: mid October 2026.
var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// countingCards records writes that reach the store.
type countingCards struct {
	CardStore
	saves atomic.Int32
}

func (c *countingCards) Save(ctx context.Context, card *models.Card) error {
	c.saves.Add(1)
	return c.CardStore.Save(ctx, card)
}

func (c *countingCards) SaveAll(ctx context.Context, cards []*models.Card) error {
	c.saves.Add(1)
	return c.CardStore.SaveAll(ctx, cards)
}

type fixture struct {
	store    *repository.MemoryStore
	cards    *countingCards
	cipher   *utils.CardCipher
	engine   *TransferEngine
	status   *StatusMachine
	cardSvc  *CardService
	adminSvc *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore(5*time.Second, time.Second)
	cipher, err := utils.NewCardCipher("0123456789abcdef", "hmac-secret")
	require.NoError(t, err)

	f := &fixture{
		store:  store,
		cards:  &countingCards{CardStore: store.Cards()},
		cipher: cipher,
	}
	log := testLogger()
	f.engine = NewTransferEngine(f.cards, store, nil, log, nil)
	f.status = NewStatusMachine(f.cards, store, nil, log, nil)
	f.status.now = func() time.Time { return fixedNow }
	f.cardSvc = NewCardService(f.cards, f.status, f.engine, cipher, nil, nil, log)
	f.adminSvc = NewAdminService(f.cards, store.Users(), store, f.status, cipher, nil, log)
	f.adminSvc.now = func() time.Time { return fixedNow }
	return f
}

type cardOpt func(*models.Card)

func withStatus(s models.CardStatus) cardOpt { return func(c *models.Card) { c.Status = s } }

func withExpiration(ym models.YearMonth) cardOpt { return func(c *models.Card) { c.Expiration = ym } }

func inactive() cardOpt { return func(c *models.Card) { c.Active = false } }

// seedCard stores a card directly, bypassing admin validation.
func (f *fixture) seedCard(t *testing.T, owner uuid.UUID, balance string, opts ...cardOpt) *models.Card {
	t.Helper()
	number := "4000000000001234"
	encrypted, err := f.cipher.Encrypt(number)
	require.NoError(t, err)
	card := &models.Card{
		NumberCipher: encrypted,
		NumberHash:   f.cipher.Hash(number + uuid.NewString()),
		Expiration:   models.YearMonthOf(fixedNow).AddMonths(12),
		Status:       models.CardStatusActive,
		Balance:      decimal.RequireFromString(balance),
		Active:       true,
		OwnerID:      owner,
	}
	for _, opt := range opts {
		opt(card)
	}
	require.NoError(t, f.store.Cards().Create(context.Background(), card))
	return card
}

func (f *fixture) card(t *testing.T, id uuid.UUID) *models.Card {
	t.Helper()
	card, err := f.store.Cards().GetByID(context.Background(), id, true)
	require.NoError(t, err)
	return card
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
