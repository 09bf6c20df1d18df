package house

import "strings"

type SortOrder string

const (
	SortByCreatedAtDesc SortOrder = "createdAtDesc"
	SortByPriceAsc      SortOrder = "priceAsc"
)

const DefaultPageSize = 10

// SearchParams mirrors the catalog filters: a keyword matching name or
// address, an area matching address only, and an inclusive price ceiling.
// Filters are mutually exclusive in the UI but the store applies whichever
// are set.
type SearchParams struct {
	Keyword  string
	Area     string
	MaxPrice int64
	Order    SortOrder
	Page     int
	Size     int
}

// Normalized fills defaults and lowercases the text filters.
func (p SearchParams) Normalized() SearchParams {
	p.Keyword = strings.ToLower(strings.TrimSpace(p.Keyword))
	p.Area = strings.ToLower(strings.TrimSpace(p.Area))
	if p.Order != SortByPriceAsc {
		p.Order = SortByCreatedAtDesc
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

func (p SearchParams) Offset() int {
	return p.Page * p.Size
}

type SearchResult struct {
	Items []*House
	Total int
	Page  int
	Size  int
}
