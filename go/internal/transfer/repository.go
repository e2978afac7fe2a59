package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mwhite31/squadmarket/go/internal/events"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
)

// OutboxInserter defines what the repository needs from the outbox app. Events
// are inserted inside the same transaction as the mutation they describe.
type OutboxInserter interface {
	InsertPlayerListed(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error
	InsertPlayerUnlisted(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error
	InsertPlayerTransferred(ctx context.Context, q sqlutil.DBTX, playerID string, payload []byte) error
}

// Repository executes transfer-market mutations. Every operation is one
// transaction; all mutations to a given player serialize on a row lock of that
// player, which is what makes concurrent buys resolve to exactly one winner.
type Repository struct {
	db     *sql.DB
	outbox OutboxInserter
}

func NewRepository(db *sql.DB, outbox OutboxInserter) *Repository {
	return &Repository{
		db:     db,
		outbox: outbox,
	}
}

// BuyResult is the outcome of a successful purchase
type BuyResult struct {
	Player          models.Player `json:"player"`
	BuyerBudget     int64         `json:"buyer_budget"`
	SellerBudget    int64         `json:"seller_budget"`
	SettlementPrice int64         `json:"settlement_price"`
}

// ListPlayer sets or updates a player's transfer listing
func (r *Repository) ListPlayer(ctx context.Context, playerID, requestingSquadID uuid.UUID, askingPrice int64) (*models.Player, error) {
	var player *models.Player
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		state, err := r.lockPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if err := validateList(state, requestingSquadID); err != nil {
			return err
		}

		player, err = r.updatePlayer(ctx, tx,
			`UPDATE players SET asking_price = $2, transfer_status = $3 WHERE id = $1
			 RETURNING id, squad_id, position, full_name, value, asking_price, transfer_status, created_at`,
			playerID, askingPrice, models.TransferStatusListed)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(events.PlayerListedPayload{
			PlayerID:    playerID.String(),
			SquadID:     requestingSquadID.String(),
			AskingPrice: askingPrice,
			ListedAt:    time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal PlayerListed payload: %w", err)
		}
		return r.outbox.InsertPlayerListed(ctx, tx, playerID.String(), payload)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// UnlistPlayer removes a player's active listing
func (r *Repository) UnlistPlayer(ctx context.Context, playerID, requestingSquadID uuid.UUID) (*models.Player, error) {
	var player *models.Player
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		state, err := r.lockPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if err := validateUnlist(state, requestingSquadID); err != nil {
			return err
		}

		player, err = r.updatePlayer(ctx, tx,
			`UPDATE players SET asking_price = NULL, transfer_status = $2 WHERE id = $1
			 RETURNING id, squad_id, position, full_name, value, asking_price, transfer_status, created_at`,
			playerID, models.TransferStatusNotListed)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(events.PlayerUnlistedPayload{
			PlayerID:   playerID.String(),
			SquadID:    requestingSquadID.String(),
			UnlistedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal PlayerUnlisted payload: %w", err)
		}
		return r.outbox.InsertPlayerUnlisted(ctx, tx, playerID.String(), payload)
	})
	if err != nil {
		return nil, err
	}
	return player, nil
}

// BuyPlayer atomically settles a purchase: buyer debit, seller credit, ownership
// reassignment and listing removal commit together or not at all.
func (r *Repository) BuyPlayer(ctx context.Context, playerID, buyerSquadID uuid.UUID) (*BuyResult, error) {
	var result *BuyResult
	err := sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		state, err := r.lockPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}

		// Fast-fail before locking squads; validateBuy re-checks afterwards
		if state.TransferStatus != models.TransferStatusListed {
			return ErrNotListed
		}
		if state.SquadID == buyerSquadID {
			return ErrSelfTransfer
		}

		sellerSquadID := state.SquadID
		budgets, err := r.lockSquadBudgets(ctx, tx, buyerSquadID, sellerSquadID)
		if err != nil {
			return err
		}

		buyerRoster, err := r.countRoster(ctx, tx, buyerSquadID)
		if err != nil {
			return err
		}
		sellerRoster, err := r.countRoster(ctx, tx, sellerSquadID)
		if err != nil {
			return err
		}

		settlement, err := validateBuy(state, buyerSquadID, budgets[buyerSquadID], buyerRoster, sellerRoster)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE squads SET budget = budget - $2 WHERE id = $1`, buyerSquadID, settlement); err != nil {
			return fmt.Errorf("failed to debit buyer: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE squads SET budget = budget + $2 WHERE id = $1`, sellerSquadID, settlement); err != nil {
			return fmt.Errorf("failed to credit seller: %w", err)
		}

		player, err := r.updatePlayer(ctx, tx,
			`UPDATE players SET squad_id = $2, asking_price = NULL, transfer_status = $3 WHERE id = $1
			 RETURNING id, squad_id, position, full_name, value, asking_price, transfer_status, created_at`,
			playerID, buyerSquadID, models.TransferStatusNotListed)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(events.PlayerTransferredPayload{
			PlayerID:        playerID.String(),
			FromSquadID:     sellerSquadID.String(),
			ToSquadID:       buyerSquadID.String(),
			AskingPrice:     *state.AskingPrice,
			SettlementPrice: settlement,
			TransferredAt:   time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal PlayerTransferred payload: %w", err)
		}
		if err := r.outbox.InsertPlayerTransferred(ctx, tx, playerID.String(), payload); err != nil {
			return err
		}

		result = &BuyResult{
			Player:          *player,
			BuyerBudget:     budgets[buyerSquadID] - settlement,
			SellerBudget:    budgets[sellerSquadID] + settlement,
			SettlementPrice: settlement,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockPlayer reads a player row under FOR UPDATE. A waiter that blocked on a
// concurrent buy observes the committed row version after the lock is granted.
func (r *Repository) lockPlayer(ctx context.Context, tx *sql.Tx, playerID uuid.UUID) (playerState, error) {
	var state playerState
	var askingPrice sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT id, squad_id, asking_price, transfer_status FROM players WHERE id = $1 FOR UPDATE`,
		playerID,
	).Scan(&state.ID, &state.SquadID, &askingPrice, &state.TransferStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return state, ErrPlayerNotFound
	}
	if err != nil {
		return state, fmt.Errorf("failed to lock player: %w", err)
	}
	state.AskingPrice = sqlutil.FromSqlInt64(askingPrice)
	return state, nil
}

// lockSquadBudgets locks both squads in id order so concurrent buys between the
// same pair of squads cannot deadlock.
func (r *Repository) lockSquadBudgets(ctx context.Context, tx *sql.Tx, a, b uuid.UUID) (map[uuid.UUID]int64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, budget FROM squads WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		pq.Array([]uuid.UUID{a, b}))
	if err != nil {
		return nil, fmt.Errorf("failed to lock squads: %w", err)
	}
	defer rows.Close()

	budgets := make(map[uuid.UUID]int64, 2)
	for rows.Next() {
		var id uuid.UUID
		var budget int64
		if err := rows.Scan(&id, &budget); err != nil {
			return nil, fmt.Errorf("failed to scan squad budget: %w", err)
		}
		budgets[id] = budget
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read squad budgets: %w", err)
	}
	if _, ok := budgets[a]; !ok {
		return nil, ErrSquadNotFound
	}
	if _, ok := budgets[b]; !ok {
		return nil, ErrSquadNotFound
	}
	return budgets, nil
}

func (r *Repository) countRoster(ctx context.Context, tx *sql.Tx, squadID uuid.UUID) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE squad_id = $1`, squadID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count roster: %w", err)
	}
	return n, nil
}

func (r *Repository) updatePlayer(ctx context.Context, tx *sql.Tx, query string, args ...any) (*models.Player, error) {
	var p models.Player
	var askingPrice sql.NullInt64
	err := tx.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.SquadID, &p.Position, &p.FullName, &p.Value, &askingPrice, &p.TransferStatus, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	p.AskingPrice = sqlutil.FromSqlInt64(askingPrice)
	return &p, nil
}
