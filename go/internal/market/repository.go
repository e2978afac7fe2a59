package market

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mwhite31/squadmarket/go/internal/models"
	"github.com/mwhite31/squadmarket/go/internal/sqlutil"
)

// Filter narrows the market listing search. Zero values mean "no constraint".
type Filter struct {
	SquadName  string `json:"squad_name"`
	PlayerName string `json:"player_name"`
	MinPrice   *int64 `json:"min_price,omitempty"`
	MaxPrice   *int64 `json:"max_price,omitempty"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// Listing is a listed player with its selling squad's display name
type Listing struct {
	Player    models.Player `json:"player"`
	SquadName string        `json:"squad_name"`
}

// Repository runs read-only market queries
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// SearchListings returns listed players matching the filter, cheapest first
func (r *Repository) SearchListings(ctx context.Context, filter Filter) ([]Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.squad_id, p.position, p.full_name, p.value, p.asking_price, p.transfer_status, p.created_at, s.name
		 FROM players p
		 JOIN squads s ON s.id = p.squad_id
		 WHERE p.transfer_status = $1
		   AND ($2 = '' OR s.name ILIKE '%' || $2 || '%')
		   AND ($3 = '' OR p.full_name ILIKE '%' || $3 || '%')
		   AND ($4::bigint IS NULL OR p.asking_price >= $4)
		   AND ($5::bigint IS NULL OR p.asking_price <= $5)
		 ORDER BY p.asking_price, p.full_name
		 LIMIT $6 OFFSET $7`,
		models.TransferStatusListed,
		filter.SquadName, filter.PlayerName,
		sqlutil.ToSqlInt64(filter.MinPrice), sqlutil.ToSqlInt64(filter.MaxPrice),
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		var askingPrice sql.NullInt64
		if err := rows.Scan(&l.Player.ID, &l.Player.SquadID, &l.Player.Position, &l.Player.FullName,
			&l.Player.Value, &askingPrice, &l.Player.TransferStatus, &l.Player.CreatedAt, &l.SquadName); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.Player.AskingPrice = sqlutil.FromSqlInt64(askingPrice)
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	return listings, nil
}
