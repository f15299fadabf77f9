package response

type PriceResponse struct {
	Timestamp string  `json:"timestamp"`
	PriceUSD  float64 `json:"price_usd"`
	PriceReal float64 `json:"price_real"`
}

type StatsResponse struct {
	Window       string  `json:"window"`
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	First        float64 `json:"first"`
	Last         float64 `json:"last"`
	VariationPct float64 `json:"variation_pct"`
	From         string  `json:"from"`
	To           string  `json:"to"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
