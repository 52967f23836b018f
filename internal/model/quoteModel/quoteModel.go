package quoteModel

// RawQuote mirrors the quote API's JSON response for a single symbol.
type RawQuote struct {
	QuoteResponse QuoteResponse `json:"quoteResponse"`
}

type QuoteResponse struct {
	Result []QuoteResult `json:"result"`
	Error  *APIError     `json:"error"`
}

type QuoteResult struct {
	Symbol        string   `json:"symbol"`
	MarketPrice   *float64 `json:"regularMarketPrice"`
	MarketChange  *float64 `json:"regularMarketChange"`
	ChangePercent *float64 `json:"regularMarketChangePercent"`
	MarketTime    int64    `json:"regularMarketTime"`
}

type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
