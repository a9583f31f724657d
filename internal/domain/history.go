package domain

// HistoryRecord is one recorded conversion into the base currency.
type HistoryRecord struct {
	ID         int64  `json:"id"`
	FromCode   string `json:"fromCode"`
	FromAmount string `json:"fromAmount"`
	ToCode     string `json:"toCode"`
	ToAmount   string `json:"toAmount"`
	Timestamp  int64  `json:"timestamp"`
}
