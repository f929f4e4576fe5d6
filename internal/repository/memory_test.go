package repository

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/bank-cards/internal/models"
)

func newCard(owner uuid.UUID, balance string) *models.Card {
	return &models.Card{
		NumberCipher: "cipher",
		NumberHash:   uuid.NewString(),
		Expiration:   models.YearMonth{Year: 2099, Month: time.December},
		Status:       models.CardStatusActive,
		Balance:      decimal.RequireFromString(balance),
		Active:       true,
		OwnerID:      owner,
	}
}

func TestMemoryCards_ReadsReturnCopies(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "10.00")
	require.NoError(t, cards.Create(ctx, card))

	got, err := cards.GetByID(ctx, card.ID, false)
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(999)

	again, err := cards.GetByID(ctx, card.ID, false)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.RequireFromString("10.00")))
}

func TestMemoryCards_InactiveFilter(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "0")
	card.Active = false
	require.NoError(t, cards.Create(ctx, card))

	_, err := cards.GetByID(ctx, card.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := cards.GetByID(ctx, card.ID, true)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestMemoryCards_OwnerScopedLookup(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	owner := uuid.New()
	card := newCard(owner, "0")
	require.NoError(t, cards.Create(ctx, card))

	_, err := cards.GetByIDForOwner(ctx, card.ID, owner, false)
	require.NoError(t, err)

	_, err = cards.GetByIDForOwner(ctx, card.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCards_DuplicateActiveNumber(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	first := newCard(uuid.New(), "0")
	require.NoError(t, cards.Create(ctx, first))

	dup := newCard(uuid.New(), "0")
	dup.NumberHash = first.NumberHash
	assert.ErrorIs(t, cards.Create(ctx, dup), ErrConflict)

	exists, err := cards.ExistsByNumberHash(ctx, first.NumberHash, false)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCards_LockedReadRequiresTx(t *testing.T) {
	store := NewMemoryStore(0, 0)
	_, err := store.Cards().GetByIDLocked(context.Background(), uuid.New(), false)
	assert.ErrorIs(t, err, ErrNoTx)
}

func TestMemoryCards_SaveInTxRequiresLock(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "5")
	require.NoError(t, cards.Create(ctx, card))

	err := store.RunInTx(ctx, func(ctx context.Context) error {
		return cards.Save(ctx, card)
	})
	assert.ErrorIs(t, err, ErrNoTx)
}

func TestMemoryStore_CommitAndRollback(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "5.00")
	require.NoError(t, cards.Create(ctx, card))

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := cards.GetByIDLocked(ctx, card.ID, false)
		require.NoError(t, err)
		locked.Balance = decimal.NewFromInt(1)
		require.NoError(t, cards.Save(ctx, locked))

		inTx, err := cards.GetByID(ctx, card.ID, false)
		require.NoError(t, err)
		assert.True(t, inTx.Balance.Equal(decimal.NewFromInt(1)), "staged write visible inside tx")

		outside, err := cards.GetByID(context.Background(), card.ID, false)
		require.NoError(t, err)
		assert.True(t, outside.Balance.Equal(decimal.RequireFromString("5.00")), "staged write hidden outside tx")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := cards.GetByID(ctx, card.ID, false)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("5.00")))

	err = store.RunInTx(ctx, func(ctx context.Context) error {
		locked, err := cards.GetByIDLocked(ctx, card.ID, false)
		if err != nil {
			return err
		}
		locked.Status = models.CardStatusBlocked
		return cards.Save(ctx, locked)
	})
	require.NoError(t, err)

	got, err = cards.GetByID(ctx, card.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.CardStatusBlocked, got.Status)
}

func TestMemoryStore_LockBlocksUntilCommit(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "0")
	require.NoError(t, cards.Create(ctx, card))

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.RunInTx(ctx, func(ctx context.Context) error {
			if _, err := cards.GetByIDLocked(ctx, card.ID, false); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := store.RunInTx(shortCtx, func(ctx context.Context) error {
		_, err := cards.GetByIDLocked(ctx, card.ID, false)
		return err
	})
	assert.ErrorIs(t, err, ErrLockTimeout)

	close(release)
	require.NoError(t, <-done)

	err = store.RunInTx(ctx, func(ctx context.Context) error {
		_, err := cards.GetByIDLocked(ctx, card.ID, false)
		return err
	})
	assert.NoError(t, err)
}

func TestMemoryStore_LockTimeout(t *testing.T) {
	store := NewMemoryStore(time.Second, 20*time.Millisecond)
	cards := store.Cards()
	ctx := context.Background()

	card := newCard(uuid.New(), "0")
	require.NoError(t, cards.Create(ctx, card))

	err := store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := cards.GetByIDLocked(ctx, card.ID, false); err != nil {
			return err
		}
		return store.RunInTx(context.Background(), func(inner context.Context) error {
			_, err := cards.GetByIDLocked(inner, card.ID, false)
			return err
		})
	})
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestMemoryCards_SaveAllOutsideTx(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	a, b := newCard(uuid.New(), "1"), newCard(uuid.New(), "2")
	require.NoError(t, cards.Create(ctx, a))
	require.NoError(t, cards.Create(ctx, b))

	a.Balance, b.Balance = decimal.NewFromInt(3), decimal.NewFromInt(0)
	require.NoError(t, cards.SaveAll(ctx, []*models.Card{a, b}))

	gotA, _ := cards.GetByID(ctx, a.ID, false)
	gotB, _ := cards.GetByID(ctx, b.ID, false)
	assert.True(t, gotA.Balance.Equal(decimal.NewFromInt(3)))
	assert.True(t, gotB.Balance.IsZero())

	b.Balance = decimal.NewFromInt(-1)
	assert.ErrorIs(t, cards.SaveAll(ctx, []*models.Card{a, b}), ErrConflict)
}

func TestMemoryCards_ListAndExpired(t *testing.T) {
	store := NewMemoryStore(0, 0)
	cards := store.Cards()
	ctx := context.Background()

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, cards.Create(ctx, newCard(owner, "0")))
	}
	lapsed := newCard(uuid.New(), "0")
	lapsed.Expiration = models.YearMonth{Year: 2020, Month: time.January}
	require.NoError(t, cards.Create(ctx, lapsed))
	deleted := newCard(owner, "0")
	deleted.Active = false
	deleted.Expiration = models.YearMonth{Year: 2020, Month: time.January}
	require.NoError(t, cards.Create(ctx, deleted))

	page, total, err := cards.List(ctx, models.CardFilter{OwnerID: &owner}, models.Page{Number: 0, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	_, total, err = cards.List(ctx, models.CardFilter{OwnerID: &owner, IncludeInactive: true}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	ids, err := cards.ListExpiredIDs(ctx, models.YearMonth{Year: 2026, Month: time.October})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{lapsed.ID}, ids)
}

func TestMemoryStore_ListFarPastTheEnd(t *testing.T) {
	store := NewMemoryStore(0, 0)
	ctx := context.Background()
	owner := uuid.New()
	require.NoError(t, store.Cards().Create(ctx, newCard(owner, "0")))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: uuid.New(), Username: "far", Enabled: true}))

	huge := models.Page{Number: math.MaxInt64 / 50, Size: 100}
	cards, total, err := store.Cards().List(ctx, models.CardFilter{OwnerID: &owner}, huge)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, cards)

	users, total, err := store.Users().List(ctx, huge)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, users)
}

func TestMemoryUsersAndTokens(t *testing.T) {
	store := NewMemoryStore(0, 0)
	users, tokens := store.Users(), store.Tokens()
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "x", Roles: []models.Role{models.RoleUser}, Enabled: true}
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Username: "alice"}), ErrConflict)

	exists, err := users.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	user.Roles = append(user.Roles, models.RoleAdmin)
	user.Enabled = false
	require.NoError(t, users.Update(ctx, user))
	got, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.HasRole(models.RoleAdmin))
	assert.False(t, got.Enabled)

	token := &models.RefreshToken{Token: "t1", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, tokens.Create(ctx, token))
	found, err := tokens.GetByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	require.NoError(t, tokens.DeleteByUserID(ctx, user.ID))
	_, err = tokens.GetByToken(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)
}
