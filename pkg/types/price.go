package types

import "time"

// PriceData is a single day-ahead price point. Price is in ct/kWh and may be
// negative.
type PriceData struct {
	Timestamp  time.Time `json:"timestamp"`
	Price      float64   `json:"price"`
	IsPeak     bool      `json:"isPeak"`
	IsNegative bool      `json:"isNegative"`
}

// NewPriceData builds a PriceData with IsNegative derived from the price so the
// two can never disagree.
func NewPriceData(ts time.Time, price float64, isPeak bool) PriceData {
	return PriceData{
		Timestamp:  ts,
		Price:      price,
		IsPeak:     isPeak,
		IsNegative: price < 0,
	}
}

// PriceDay is the response type for the prices endpoint.
type PriceDay struct {
	Region string      `json:"region"`
	Date   string      `json:"date"`
	Prices []PriceData `json:"prices"`
}
