package squad

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
)

// Repository persists squads and players in Postgres
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// CreateSquadRequest carries the fields for a new squad record in CREATING state
type CreateSquadRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// CreateSquadIfAbsent inserts a new squad in CREATING state for the account.
// The unique index on account_id makes this the mutual-exclusion point for
// provisioning: on duplicate delivery the insert is a no-op and created is false.
func (r *Repository) CreateSquadIfAbsent(ctx context.Context, req CreateSquadRequest) (*models.Squad, bool, error) {
	squad := &models.Squad{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO squads (id, account_id, name, budget, status)
		 VALUES ($1, $2, $3, 0, $4)
		 ON CONFLICT (account_id) DO NOTHING
		 RETURNING id, account_id, name, budget, status, created_at`,
		uuid.New(), req.AccountID, req.Name, models.SquadStatusCreating,
	).Scan(&squad.ID, &squad.AccountID, &squad.Name, &squad.Budget, &squad.Status, &squad.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: a squad already exists for this account
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create squad: %w", err)
	}

	return squad, true, nil
}

// GetSquad retrieves a squad by id
func (r *Repository) GetSquad(ctx context.Context, id uuid.UUID) (*models.Squad, error) {
	return r.scanSquad(r.db.QueryRowContext(ctx,
		`SELECT id, account_id, name, budget, status, created_at FROM squads WHERE id = $1`, id))
}

// GetSquadByAccount retrieves a squad by its owning account reference
func (r *Repository) GetSquadByAccount(ctx context.Context, accountID string) (*models.Squad, error) {
	return r.scanSquad(r.db.QueryRowContext(ctx,
		`SELECT id, account_id, name, budget, status, created_at FROM squads WHERE account_id = $1`, accountID))
}

// CompleteProvisioning persists the generated roster, sets the squad budget and
// transitions CREATING -> READY in a single transaction.
func (r *Repository) CompleteProvisioning(ctx context.Context, squadID uuid.UUID, budget int64, players []PlayerSeed) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE squads SET budget = $2, status = $3 WHERE id = $1 AND status = $4`,
			squadID, budget, models.SquadStatusReady, models.SquadStatusCreating)
		if err != nil {
			return fmt.Errorf("failed to mark squad ready: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("squad %s is not in %s state", squadID, models.SquadStatusCreating)
		}

		ids := make([]uuid.UUID, len(players))
		positions := make([]string, len(players))
		names := make([]string, len(players))
		values := make([]int64, len(players))
		for i, p := range players {
			ids[i] = uuid.New()
			positions[i] = string(p.Position)
			names[i] = p.FullName
			values[i] = p.Value
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO players (id, squad_id, position, full_name, value, transfer_status)
			 SELECT unnest($1::uuid[]), $2, unnest($3::text[]), unnest($4::text[]), unnest($5::bigint[]), $6`,
			pq.Array(ids), squadID, pq.Array(positions), pq.Array(names), pq.Array(values),
			models.TransferStatusNotListed)
		if err != nil {
			return fmt.Errorf("failed to insert players: %w", err)
		}

		return nil
	})
}

// PlayerSeed is one generated player to persist during provisioning
type PlayerSeed struct {
	Position models.Position
	FullName string
	Value    int64
}

// MarkProvisioningFailed transitions CREATING -> ERROR
func (r *Repository) MarkProvisioningFailed(ctx context.Context, squadID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE squads SET status = $2 WHERE id = $1 AND status = $3`,
		squadID, models.SquadStatusError, models.SquadStatusCreating)
	if err != nil {
		return fmt.Errorf("failed to mark squad errored: %w", err)
	}
	return nil
}

// ResetForReprovisioning transitions ERROR -> CREATING and drops any partially
// written roster. Returns ErrNotReprovisionable when the squad is not in ERROR.
func (r *Repository) ResetForReprovisioning(ctx context.Context, squadID uuid.UUID) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE squads SET status = $2, budget = 0 WHERE id = $1 AND status = $3`,
			squadID, models.SquadStatusCreating, models.SquadStatusError)
		if err != nil {
			return fmt.Errorf("failed to reset squad: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotReprovisionable
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE squad_id = $1`, squadID); err != nil {
			return fmt.Errorf("failed to delete partial roster: %w", err)
		}
		return nil
	})
}

// GetRoster retrieves all players currently owned by the squad
func (r *Repository) GetRoster(ctx context.Context, squadID uuid.UUID) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, squad_id, position, full_name, value, asking_price, transfer_status, created_at
		 FROM players WHERE squad_id = $1 ORDER BY position, full_name`, squadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		var askingPrice sql.NullInt64
		if err := rows.Scan(&p.ID, &p.SquadID, &p.Position, &p.FullName, &p.Value,
			&askingPrice, &p.TransferStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.AskingPrice = sqlutil.FromSqlInt64(askingPrice)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	return players, nil
}

func (r *Repository) scanSquad(row *sql.Row) (*models.Squad, error) {
	squad := &models.Squad{}
	err := row.Scan(&squad.ID, &squad.AccountID, &squad.Name, &squad.Budget, &squad.Status, &squad.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSquadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get squad: %w", err)
	}
	return squad, nil
}
