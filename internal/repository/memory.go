package repository

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dan9191/bank-cards/internal/models"
)

type memTxKey struct{}

// memTx tracks the card locks held and the card writes staged by one transaction.
type memTx struct {
	held   map[uuid.UUID]chan struct{}
	staged map[uuid.UUID]*models.Card
}

func memTxFrom(ctx context.Context) (*memTx, bool) {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	return tx, ok
}

// MemoryStore keeps cards, users and refresh tokens in process memory.
// Card locks are per card and honor context cancellation. Card writes made
// inside RunInTx become visible to other readers only on commit.
type MemoryStore struct {
	mu          sync.RWMutex
	cards       map[uuid.UUID]*models.Card
	cardOrder   []uuid.UUID
	users       map[uuid.UUID]*models.User
	userOrder   []uuid.UUID
	tokens      map[uuid.UUID]*models.RefreshToken
	locksMu     sync.Mutex
	locks       map[uuid.UUID]chan struct{}
	txTimeout   time.Duration
	lockTimeout time.Duration
}

// NewMemoryStore builds an empty store. Zero durations fall back to defaults.
func NewMemoryStore(txTimeout, lockTimeout time.Duration) *MemoryStore {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &MemoryStore{
		cards:       make(map[uuid.UUID]*models.Card),
		users:       make(map[uuid.UUID]*models.User),
		tokens:      make(map[uuid.UUID]*models.RefreshToken),
		locks:       make(map[uuid.UUID]chan struct{}),
		txTimeout:   txTimeout,
		lockTimeout: lockTimeout,
	}
}

// Cards returns the card store view.
func (s *MemoryStore) Cards() *MemoryCards { return &MemoryCards{s: s} }

// Users returns the user store view.
func (s *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{s: s} }

// Tokens returns the refresh token store view.
func (s *MemoryStore) Tokens() *MemoryTokens { return &MemoryTokens{s: s} }

// RunInTx executes fn in a transaction. Staged card writes are applied when fn
// returns nil and discarded otherwise; held locks are released in both cases.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := memTxFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w: %w", ErrLockTimeout, err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	tx := &memTx{
		held:   make(map[uuid.UUID]chan struct{}),
		staged: make(map[uuid.UUID]*models.Card),
	}
	defer s.release(tx)

	if err := fn(context.WithValue(ctx, memTxKey{}, tx)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range tx.staged {
		if _, ok := s.cards[id]; !ok {
			return fmt.Errorf("failed to commit card %s: %w", id, ErrNotFound)
		}
	}
	for id, card := range tx.staged {
		s.cards[id] = card.Clone()
	}
	return nil
}

func (s *MemoryStore) lockFor(id uuid.UUID) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	return ch
}

// acquire blocks until the card lock is free, ctx ends or the lock timeout passes.
// It reports whether the lock was newly taken by this call.
func (s *MemoryStore) acquire(ctx context.Context, tx *memTx, id uuid.UUID) (bool, error) {
	if _, held := tx.held[id]; held {
		return false, nil
	}
	ch := s.lockFor(id)
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		tx.held[id] = ch
		return true, nil
	case <-ctx.Done():
		return false, fmt.Errorf("failed to lock card %s: %w: %w", id, ErrLockTimeout, ctx.Err())
	case <-timer.C:
		return false, fmt.Errorf("failed to lock card %s: %w", id, ErrLockTimeout)
	}
}

func (s *MemoryStore) unlock(tx *memTx, id uuid.UUID) {
	if ch, ok := tx.held[id]; ok {
		delete(tx.held, id)
		<-ch
	}
}

func (s *MemoryStore) release(tx *memTx) {
	for id := range tx.held {
		s.unlock(tx, id)
	}
}

// MemoryCards implements the card store over a MemoryStore.
type MemoryCards struct {
	s *MemoryStore
}

// current returns the card as seen by ctx: staged version first, then committed.
func (c *MemoryCards) current(ctx context.Context, id uuid.UUID) (*models.Card, bool) {
	if tx, ok := memTxFrom(ctx); ok {
		if card, ok := tx.staged[id]; ok {
			return card, true
		}
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	card, ok := c.s.cards[id]
	return card, ok
}

func (c *MemoryCards) Create(ctx context.Context, card *models.Card) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	if _, ok := c.s.cards[card.ID]; ok {
		return fmt.Errorf("failed to create card %s: %w", card.ID, ErrConflict)
	}
	if card.Active {
		for _, existing := range c.s.cards {
			if existing.Active && existing.NumberHash == card.NumberHash {
				return fmt.Errorf("failed to create card: duplicate number: %w", ErrConflict)
			}
		}
	}
	if card.Balance.IsNegative() {
		return fmt.Errorf("failed to create card: negative balance: %w", ErrConflict)
	}
	now := time.Now().UTC()
	card.CreatedAt, card.UpdatedAt = now, now
	c.s.cards[card.ID] = card.Clone()
	c.s.cardOrder = append(c.s.cardOrder, card.ID)
	return nil
}

func (c *MemoryCards) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error) {
	card, ok := c.current(ctx, id)
	if !ok || (!includeInactive && !card.Active) {
		return nil, fmt.Errorf("failed to find card %s: %w", id, ErrNotFound)
	}
	return card.Clone(), nil
}

func (c *MemoryCards) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID, includeInactive bool) (*models.Card, error) {
	card, err := c.GetByID(ctx, id, includeInactive)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != ownerID {
		return nil, fmt.Errorf("failed to find card %s: %w", id, ErrNotFound)
	}
	return card, nil
}

// GetByIDLocked takes the card lock for the rest of the transaction. A missing
// or filtered out card leaves no lock behind.
func (c *MemoryCards) GetByIDLocked(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error) {
	tx, ok := memTxFrom(ctx)
	if !ok {
		return nil, ErrNoTx
	}
	taken, err := c.s.acquire(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	card, ok := c.current(ctx, id)
	if !ok || (!includeInactive && !card.Active) {
		if taken {
			c.s.unlock(tx, id)
		}
		return nil, fmt.Errorf("failed to lock card %s: %w", id, ErrNotFound)
	}
	return card.Clone(), nil
}

// Save stages the card inside a transaction, which requires its lock to be held.
// Outside a transaction the write is applied immediately under the card lock.
func (c *MemoryCards) Save(ctx context.Context, card *models.Card) error {
	if card.Balance.IsNegative() {
		return fmt.Errorf("failed to save card %s: negative balance: %w", card.ID, ErrConflict)
	}
	if tx, ok := memTxFrom(ctx); ok {
		if _, held := tx.held[card.ID]; !held {
			return fmt.Errorf("failed to save card %s: not locked: %w", card.ID, ErrNoTx)
		}
		if _, ok := c.current(ctx, card.ID); !ok {
			return fmt.Errorf("failed to save card %s: %w", card.ID, ErrNotFound)
		}
		card.UpdatedAt = time.Now().UTC()
		tx.staged[card.ID] = card.Clone()
		return nil
	}
	return c.s.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := c.GetByIDLocked(ctx, card.ID, true); err != nil {
			return err
		}
		return c.Save(ctx, card)
	})
}

// SaveAll writes every card atomically.
func (c *MemoryCards) SaveAll(ctx context.Context, cards []*models.Card) error {
	if _, ok := memTxFrom(ctx); ok {
		for _, card := range cards {
			if err := c.Save(ctx, card); err != nil {
				return err
			}
		}
		return nil
	}
	return c.s.RunInTx(ctx, func(ctx context.Context) error {
		ordered := make([]*models.Card, len(cards))
		copy(ordered, cards)
		sort.Slice(ordered, func(i, j int) bool {
			return bytes.Compare(ordered[i].ID[:], ordered[j].ID[:]) < 0
		})
		for _, card := range ordered {
			if _, err := c.GetByIDLocked(ctx, card.ID, true); err != nil {
				return err
			}
		}
		return c.SaveAll(ctx, cards)
	})
}

func (c *MemoryCards) ExistsByNumberHash(ctx context.Context, hash string, includeInactive bool) (bool, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, card := range c.s.cards {
		if card.NumberHash == hash && (includeInactive || card.Active) {
			return true, nil
		}
	}
	return false, nil
}

func (c *MemoryCards) List(ctx context.Context, filter models.CardFilter, page models.Page) ([]*models.Card, int, error) {
	page = page.Normalize()
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var matched []*models.Card
	for _, id := range c.s.cardOrder {
		card := c.s.cards[id]
		if filter.OwnerID != nil && card.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && card.Status != *filter.Status {
			continue
		}
		if !filter.IncludeInactive && !card.Active {
			continue
		}
		matched = append(matched, card)
	}

	total := len(matched)
	start, end := pageBounds(page, total)
	out := make([]*models.Card, 0, end-start)
	for _, card := range matched[start:end] {
		out = append(out, card.Clone())
	}
	return out, total, nil
}

// pageBounds returns the slice bounds of page within total items.
func pageBounds(page models.Page, total int) (int, int) {
	start := min(max(page.Offset(), 0), total)
	return start, start + min(page.Size, total-start)
}

func (c *MemoryCards) ListExpiredIDs(ctx context.Context, now models.YearMonth) ([]uuid.UUID, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	var ids []uuid.UUID
	for id, card := range c.s.cards {
		if card.Active && card.Status != models.CardStatusExpired && card.Expiration.Before(now) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids, nil
}

// MemoryUsers implements the user store over a MemoryStore. Writes apply immediately.
type MemoryUsers struct {
	s *MemoryStore
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Roles = append([]models.Role(nil), u.Roles...)
	return &cp
}

func (u *MemoryUsers) Create(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range u.s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("failed to create user: duplicate username: %w", ErrConflict)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	u.s.users[user.ID] = cloneUser(user)
	u.s.userOrder = append(u.s.userOrder, user.ID)
	return nil
}

func (u *MemoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to find user %s: %w", id, ErrNotFound)
	}
	return cloneUser(user), nil
}

func (u *MemoryUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, fmt.Errorf("failed to find user: %w", ErrNotFound)
}

func (u *MemoryUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := u.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (u *MemoryUsers) List(ctx context.Context, page models.Page) ([]*models.User, int, error) {
	page = page.Normalize()
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	total := len(u.s.userOrder)
	start, end := pageBounds(page, total)
	out := make([]*models.User, 0, end-start)
	for _, id := range u.s.userOrder[start:end] {
		out = append(out, cloneUser(u.s.users[id]))
	}
	return out, total, nil
}

func (u *MemoryUsers) Update(ctx context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	existing, ok := u.s.users[user.ID]
	if !ok {
		return fmt.Errorf("failed to update user %s: %w", user.ID, ErrNotFound)
	}
	user.UpdatedAt = time.Now().UTC()
	updated := cloneUser(existing)
	updated.Roles = append([]models.Role(nil), user.Roles...)
	updated.Enabled = user.Enabled
	updated.UpdatedAt = user.UpdatedAt
	u.s.users[user.ID] = updated
	return nil
}

// MemoryTokens implements the refresh token store over a MemoryStore.
type MemoryTokens struct {
	s *MemoryStore
}

func (t *MemoryTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	for _, existing := range t.s.tokens {
		if existing.Token == token.Token {
			return fmt.Errorf("failed to create refresh token: %w", ErrConflict)
		}
	}
	cp := *token
	t.s.tokens[token.ID] = &cp
	return nil
}

func (t *MemoryTokens) GetByToken(ctx context.Context, value string) (*models.RefreshToken, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	for _, token := range t.s.tokens {
		if token.Token == value {
			cp := *token
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("failed to find refresh token: %w", ErrNotFound)
}

func (t *MemoryTokens) Delete(ctx context.Context, id uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	delete(t.s.tokens, id)
	return nil
}

func (t *MemoryTokens) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, token := range t.s.tokens {
		if token.UserID == userID {
			delete(t.s.tokens, id)
		}
	}
	return nil
}
