package models

import (
	"strings"
	"time"
)

// Token represents a single entry of the provider's token list. Entries are
// immutable snapshot values, replaced wholesale on each successful fetch.
type Token struct {
	Address       string    `json:"address"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Tags          []string  `json:"tags,omitempty"`
	DailyVolume   float64   `json:"daily_volume,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	MintAuthority string    `json:"mint_authority,omitempty"`
	CoingeckoID   string    `json:"coingecko_id,omitempty"`
	LogoURI       string    `json:"logo_uri,omitempty"`
}

// HasTag reports whether the token carries the given tag (case-insensitive).
func (t Token) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if strings.EqualFold(candidate, tag) {
			return true
		}
	}
	return false
}

// AgeDays returns the token age in days relative to now, never less than zero.
func (t Token) AgeDays(now time.Time) float64 {
	if t.CreatedAt.IsZero() || t.CreatedAt.After(now) {
		return 0
	}
	return now.Sub(t.CreatedAt).Hours() / 24
}

// PriceQuote is a single asset quote as returned by the price provider.
type PriceQuote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	Volume24h float64 `json:"volume_24h"`
}

// PriceSnapshot tracks the current and previous price of the tracked asset.
// The previous/current pair enables change-percent derivation.
type PriceSnapshot struct {
	Price         float64   `json:"price"`
	PreviousPrice float64   `json:"previous_price"`
	LastUpdated   time.Time `json:"last_updated"`
}

// ChangePercent derives the percentage move from the previous price,
// returning 0 when no previous price exists.
func (s PriceSnapshot) ChangePercent() float64 {
	if s.PreviousPrice == 0 {
		return 0
	}
	return (s.Price - s.PreviousPrice) / s.PreviousPrice * 100
}

// SearchResponse is the payload served for token search queries.
type SearchResponse struct {
	Query  string  `json:"query"`
	Tokens []Token `json:"tokens"`
}

// TrendingPage is one page of the classifier-filtered trending list.
type TrendingPage struct {
	Tokens       []Token `json:"tokens"`
	Page         int     `json:"page"`
	HasMorePages bool    `json:"has_more_pages"`
}
