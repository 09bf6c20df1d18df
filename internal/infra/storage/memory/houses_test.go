package memory

import (
	"context"
	"testing"
	"time"

	"minpaku/internal/domain/house"
)

func seedHouses(t *testing.T) *HouseRepository {
	t.Helper()
	repo := NewHouseRepository()
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []struct {
		id       string
		name     string
		address  string
		price    int64
		count    int64
		created  time.Time
		capacity int
	}{
		{"h1", "Sakura Cottage", "Tokyo, Setagaya", 8000, 5, base, 4},
		{"h2", "Ocean Villa", "Okinawa, Naha", 20000, 12, base.AddDate(0, 0, 1), 6},
		{"h3", "Mountain Lodge Tokyo", "Nagano, Hakuba", 12000, 1, base.AddDate(0, 0, 2), 8},
		{"h4", "City Loft", "Tokyo, Shibuya", 9000, 7, base.AddDate(0, 0, 3), 2},
	}
	for _, fx := range fixtures {
		h, err := house.New(house.CreateParams{
			ID:       house.HouseID(fx.id),
			Name:     fx.name,
			Price:    fx.price,
			Capacity: fx.capacity,
			Address:  fx.address,
			Now:      fx.created,
		})
		if err != nil {
			t.Fatalf("fixture %s: %v", fx.id, err)
		}
		h.ReservationCount = fx.count
		if err := repo.Save(context.Background(), h); err != nil {
			t.Fatalf("save %s: %v", fx.id, err)
		}
	}
	return repo
}

func ids(items []*house.House) []string {
	out := make([]string, 0, len(items))
	for _, h := range items {
		out = append(out, string(h.ID))
	}
	return out
}

func TestHouseSearch(t *testing.T) {
	repo := seedHouses(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  house.SearchParams
		wantIDs []string
		total   int
	}{
		{
			name:    "no filters newest first",
			params:  house.SearchParams{},
			wantIDs: []string{"h4", "h3", "h2", "h1"},
			total:   4,
		},
		{
			name:    "keyword matches name or address",
			params:  house.SearchParams{Keyword: "tokyo"},
			wantIDs: []string{"h4", "h3", "h1"},
			total:   3,
		},
		{
			name:    "area matches address only",
			params:  house.SearchParams{Area: "tokyo"},
			wantIDs: []string{"h4", "h1"},
			total:   2,
		},
		{
			name:    "max price ceiling inclusive",
			params:  house.SearchParams{MaxPrice: 9000},
			wantIDs: []string{"h4", "h1"},
			total:   2,
		},
		{
			name:    "price ascending order",
			params:  house.SearchParams{Order: house.SortByPriceAsc},
			wantIDs: []string{"h1", "h4", "h3", "h2"},
			total:   4,
		},
		{
			name:    "pagination second page",
			params:  house.SearchParams{Size: 2, Page: 1},
			wantIDs: []string{"h2", "h1"},
			total:   4,
		},
		{
			name:   "no match",
			params: house.SearchParams{Keyword: "zanzibar"},
			total:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Search(ctx, tt.params)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if result.Total != tt.total {
				t.Errorf("Total = %d, want %d", result.Total, tt.total)
			}
			got := ids(result.Items)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("items = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("items = %v, want %v", got, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestHouseNewestAndPopular(t *testing.T) {
	repo := seedHouses(t)
	ctx := context.Background()

	newest, err := repo.Newest(ctx, 2)
	if err != nil {
		t.Fatalf("Newest() error = %v", err)
	}
	if got := ids(newest); len(got) != 2 || got[0] != "h4" || got[1] != "h3" {
		t.Errorf("Newest() = %v, want [h4 h3]", got)
	}

	popular, err := repo.Popular(ctx, 3)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	if got := ids(popular); len(got) != 3 || got[0] != "h2" || got[1] != "h4" || got[2] != "h1" {
		t.Errorf("Popular() = %v, want [h2 h4 h1]", got)
	}
}

func TestHouseByIDReturnsCopy(t *testing.T) {
	repo := seedHouses(t)
	ctx := context.Background()

	h, err := repo.ByID(ctx, "h1")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	h.Name = "mutated"

	again, err := repo.ByID(ctx, "h1")
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if again.Name != "Sakura Cottage" {
		t.Errorf("stored house mutated through returned pointer: %q", again.Name)
	}
}

func TestHouseDelete(t *testing.T) {
	repo := seedHouses(t)
	ctx := context.Background()

	if err := repo.Delete(ctx, "h1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.ByID(ctx, "h1"); err != house.ErrNotFound {
		t.Errorf("ByID after delete = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "h1"); err != house.ErrNotFound {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}
