package kafka

const PriceRecordedEventType = "price.recorded"

type PriceRecordedEvent struct {
	EventID      string  `json:"event_id"`
	EventType    string  `json:"event_type"`
	Base         string  `json:"base"`
	Currency     string  `json:"currency"`
	PriceUSD     float64 `json:"price_usd"`
	PriceReal    float64 `json:"price_real"`
	Rate         float64 `json:"rate"`
	RateSource   string  `json:"rate_source"`
	FallbackRate bool    `json:"fallback_rate"`
	Timestamp    string  `json:"timestamp"`
}
