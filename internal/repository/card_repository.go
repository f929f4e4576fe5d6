package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dan9191/bank-cards/internal/models"
)

const cardColumns = `id, number_cipher, number_hash, expiration_date, status, balance, active, owner_id, created_at, updated_at`

// CardRepository stores cards in Postgres.
type CardRepository struct {
	*Repository
}

// NewCardRepository initializes a card repository over db.
func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{Repository: NewRepository(db)}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(&card.ID, &card.NumberCipher, &card.NumberHash, &card.Expiration, &card.Status,
		&card.Balance, &card.Active, &card.OwnerID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return card, nil
}

func activeClause(includeInactive bool) string {
	if includeInactive {
		return ""
	}
	return " AND active"
}

// Create inserts a new card. A second active card with the same number hash is a conflict.
func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	now := time.Now().UTC()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	card.CreatedAt, card.UpdatedAt = now, now
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.conn(ctx).ExecContext(ctx, query, card.ID, card.NumberCipher, card.NumberHash, card.Expiration,
		card.Status, card.Balance, card.Active, card.OwnerID, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to create card: %w", err))
	}
	return nil
}

// GetByID retrieves a card by id
func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1` + activeClause(includeInactive)
	card, err := scanCard(r.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to find card %s: %w", id, err))
	}
	return card, nil
}

// GetByIDForOwner retrieves a card by id only when it belongs to ownerID.
func (r *CardRepository) GetByIDForOwner(ctx context.Context, id, ownerID uuid.UUID, includeInactive bool) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND owner_id = $2` + activeClause(includeInactive)
	card, err := scanCard(r.conn(ctx).QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to find card %s: %w", id, err))
	}
	return card, nil
}

// GetByIDLocked reads a card with a row lock held until the surrounding transaction ends.
func (r *CardRepository) GetByIDLocked(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Card, error) {
	tx, ok := txFrom(ctx)
	if !ok {
		return nil, ErrNoTx
	}
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1` + activeClause(includeInactive) + ` FOR UPDATE`
	card, err := scanCard(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to lock card %s: %w", id, err))
	}
	return card, nil
}

// Save writes the mutable fields of card.
func (r *CardRepository) Save(ctx context.Context, card *models.Card) error {
	return r.save(ctx, r.conn(ctx), card)
}

func (r *CardRepository) save(ctx context.Context, q querier, card *models.Card) error {
	card.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE cards
		SET status = $2, balance = $3, active = $4, updated_at = $5
		WHERE id = $1`
	res, err := q.ExecContext(ctx, query, card.ID, card.Status, card.Balance, card.Active, card.UpdatedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to save card %s: %w", card.ID, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to save card %s: %w", card.ID, ErrNotFound)
	}
	return nil
}

// SaveAll writes every card atomically. Without a surrounding transaction it opens its own.
func (r *CardRepository) SaveAll(ctx context.Context, cards []*models.Card) error {
	if _, ok := txFrom(ctx); ok {
		for _, card := range cards {
			if err := r.Save(ctx, card); err != nil {
				return err
			}
		}
		return nil
	}
	return NewTransactor(r.db, 0, 0).RunInTx(ctx, func(ctx context.Context) error {
		return r.SaveAll(ctx, cards)
	})
}

// ExistsByNumberHash reports whether a card with the given number hash exists.
func (r *CardRepository) ExistsByNumberHash(ctx context.Context, hash string, includeInactive bool) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM cards WHERE number_hash = $1` + activeClause(includeInactive) + `)`
	var exists bool
	if err := r.conn(ctx).QueryRowContext(ctx, query, hash).Scan(&exists); err != nil {
		return false, mapPgError(fmt.Errorf("failed to check card number: %w", err))
	}
	return exists, nil
}

// List returns one page of cards matching filter, ordered by creation time, and the total count.
func (r *CardRepository) List(ctx context.Context, filter models.CardFilter, page models.Page) ([]*models.Card, int, error) {
	page = page.Normalize()
	var (
		conds []string
		args  []any
	)
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.IncludeInactive {
		conds = append(conds, "active")
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapPgError(fmt.Errorf("failed to count cards: %w", err))
	}

	query := fmt.Sprintf(`SELECT %s FROM cards%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		cardColumns, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, 0, mapPgError(fmt.Errorf("failed to list cards: %w", err))
	}
	defer rows.Close()

	cards := make([]*models.Card, 0, page.Size)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return cards, total, nil
}

// ListExpiredIDs returns ids of active, not yet EXPIRED cards whose expiration month is before now.
func (r *CardRepository) ListExpiredIDs(ctx context.Context, now models.YearMonth) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM cards
		WHERE active AND status <> $1 AND expiration_date < $2
		ORDER BY id`
	rows, err := r.conn(ctx).QueryContext(ctx, query, models.CardStatusExpired, now)
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to list expired cards: %w", err))
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card ids: %w", err)
	}
	return ids, nil
}
