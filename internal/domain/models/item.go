package models

import "encoding/json"

// Item is one catalog entry as stored in the backing file. Price is kept as
// json.Number so malformed values in the file surface when aggregating, not
// silently as zero.
type Item struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category,omitempty"`
	Price    json.Number `json:"price"`
}

// Stats is the aggregate view over the whole catalog.
type Stats struct {
	Total        int     `json:"total"`
	AveragePrice float64 `json:"averagePrice"`
}

// ItemPage is one page of a filtered item listing.
type ItemPage struct {
	Items   []Item `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasMore bool   `json:"hasMore"`
}
