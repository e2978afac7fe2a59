package market

import (
	"context"
	"testing"
)

type mockMarketRepo struct {
	gotFilter Filter
	listings  []Listing
	err       error
}

func (m *mockMarketRepo) SearchListings(ctx context.Context, filter Filter) ([]Listing, error) {
	m.gotFilter = filter
	return m.listings, m.err
}

func TestSearchAppliesLimitDefaults(t *testing.T) {
	repo := &mockMarketRepo{}
	app := NewApp(repo)

	if _, err := app.Search(context.Background(), Filter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotFilter.Limit != defaultLimit {
		t.Errorf("expected default limit %d, got %d", defaultLimit, repo.gotFilter.Limit)
	}

	if _, err := app.Search(context.Background(), Filter{Limit: 10_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotFilter.Limit != maxLimit {
		t.Errorf("expected limit clamped to %d, got %d", maxLimit, repo.gotFilter.Limit)
	}
}

func TestSearchValidatesBounds(t *testing.T) {
	app := NewApp(&mockMarketRepo{})
	neg := int64(-1)
	low := int64(100)
	high := int64(50)

	if _, err := app.Search(context.Background(), Filter{Offset: -1}); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := app.Search(context.Background(), Filter{MinPrice: &neg}); err == nil {
		t.Error("expected error for negative min price")
	}
	if _, err := app.Search(context.Background(), Filter{MinPrice: &low, MaxPrice: &high}); err == nil {
		t.Error("expected error for inverted price range")
	}
}

func TestSearchReturnsEmptySliceNotNil(t *testing.T) {
	app := NewApp(&mockMarketRepo{listings: nil})

	listings, err := app.Search(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listings == nil {
		t.Error("expected empty slice, got nil")
	}
}
