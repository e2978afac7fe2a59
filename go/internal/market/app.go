package market

import (
	"context"
	"errors"
	"fmt"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ErrInvalidFilter indicates the caller supplied out-of-range filter bounds
var ErrInvalidFilter = errors.New("invalid market filter")

// MarketRepository defines what the app layer needs from the repository
type MarketRepository interface {
	SearchListings(ctx context.Context, filter Filter) ([]Listing, error)
}

// App handles market query logic
type App struct {
	repo MarketRepository
}

// NewApp creates a new market App
func NewApp(repo MarketRepository) *App {
	return &App{
		repo: repo,
	}
}

// Search returns listed players matching the filter, with pagination defaults
// applied and bounds validated.
func (a *App) Search(ctx context.Context, filter Filter) ([]Listing, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidFilter)
	}
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return nil, fmt.Errorf("%w: min_price must not be negative", ErrInvalidFilter)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MaxPrice < *filter.MinPrice {
		return nil, fmt.Errorf("%w: max_price must not be below min_price", ErrInvalidFilter)
	}

	listings, err := a.repo.SearchListings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	if listings == nil {
		listings = []Listing{}
	}
	return listings, nil
}
