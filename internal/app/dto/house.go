package dto

import (
	"time"

	domainhouse "minpaku/internal/domain/house"
)

// HouseCard is the lightweight representation used by search and home feeds.
type HouseCard struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Price            int64  `json:"price"`
	Capacity         int    `json:"capacity"`
	Address          string `json:"address"`
	ImageName        string `json:"image_name"`
	ReservationCount int64  `json:"reservation_count"`
}

type HouseDetail struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            int64     `json:"price"`
	Capacity         int       `json:"capacity"`
	PostalCode       string    `json:"postal_code"`
	Address          string    `json:"address"`
	PhoneNumber      string    `json:"phone_number"`
	ImageName        string    `json:"image_name"`
	ReservationCount int64     `json:"reservation_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HouseCatalog is a paginated search result with the applied filters echoed
// back.
type HouseCatalog struct {
	Items   []HouseCard     `json:"items"`
	Filters CatalogFilters  `json:"filters"`
	Meta    CatalogMetadata `json:"meta"`
}

type CatalogFilters struct {
	Keyword  string `json:"keyword"`
	Area     string `json:"area"`
	MaxPrice int64  `json:"max_price"`
}

type CatalogMetadata struct {
	Total int    `json:"total"`
	Count int    `json:"count"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
	Order string `json:"order"`
}

type HomeFeed struct {
	Newest  []HouseCard `json:"newest"`
	Popular []HouseCard `json:"popular"`
}

func MapHouseCard(h *domainhouse.House) HouseCard {
	if h == nil {
		return HouseCard{}
	}
	return HouseCard{
		ID:               string(h.ID),
		Name:             h.Name,
		Price:            h.Price,
		Capacity:         h.Capacity,
		Address:          h.Address,
		ImageName:        h.ImageName,
		ReservationCount: h.ReservationCount,
	}
}

func MapHouseDetail(h *domainhouse.House) HouseDetail {
	if h == nil {
		return HouseDetail{}
	}
	return HouseDetail{
		ID:               string(h.ID),
		Name:             h.Name,
		Description:      h.Description,
		Price:            h.Price,
		Capacity:         h.Capacity,
		PostalCode:       h.PostalCode,
		Address:          h.Address,
		PhoneNumber:      h.PhoneNumber,
		ImageName:        h.ImageName,
		ReservationCount: h.ReservationCount,
		CreatedAt:        h.CreatedAt,
		UpdatedAt:        h.UpdatedAt,
	}
}

func MapHouseCatalog(result domainhouse.SearchResult, params domainhouse.SearchParams) HouseCatalog {
	normalized := params.Normalized()
	items := make([]HouseCard, 0, len(result.Items))
	for _, h := range result.Items {
		items = append(items, MapHouseCard(h))
	}
	return HouseCatalog{
		Items: items,
		Filters: CatalogFilters{
			Keyword:  normalized.Keyword,
			Area:     normalized.Area,
			MaxPrice: normalized.MaxPrice,
		},
		Meta: CatalogMetadata{
			Total: result.Total,
			Count: len(items),
			Page:  result.Page,
			Size:  result.Size,
			Order: string(normalized.Order),
		},
	}
}

func MapHomeFeed(newest, popular []*domainhouse.House) HomeFeed {
	feed := HomeFeed{
		Newest:  make([]HouseCard, 0, len(newest)),
		Popular: make([]HouseCard, 0, len(popular)),
	}
	for _, h := range newest {
		feed.Newest = append(feed.Newest, MapHouseCard(h))
	}
	for _, h := range popular {
		feed.Popular = append(feed.Popular, MapHouseCard(h))
	}
	return feed
}
