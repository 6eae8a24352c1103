package feed

// CurrentPrice is the document served by the current-price endpoint.
type CurrentPrice struct {
	Time       TimeData               `json:"time"`
	Disclaimer string                 `json:"disclaimer"`
	ChartName  string                 `json:"chartName"`
	BPI        map[string]CurrencyBPI `json:"bpi"`
}

// TimeData carries the feed's own update timestamps.
type TimeData struct {
	Updated    string `json:"updated"`    // e.g. "Aug 11, 2021 22:21:00 UTC"
	UpdatedISO string `json:"updatedISO"` // e.g. "2021-08-11T22:21:00+00:00"
	UpdatedUK  string `json:"updateduk"`
}

// CurrencyBPI is the index entry for one currency.
type CurrencyBPI struct {
	Code        string  `json:"code"`
	Symbol      string  `json:"symbol"` // HTML entity, e.g. "&#36;"
	Rate        string  `json:"rate"`   // comma-grouped, e.g. "45,983.3647"
	Description string  `json:"description"`
	RateFloat   float64 `json:"rate_float"`
}
