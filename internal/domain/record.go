package domain

// InputRecord is one validated expense row from the input CSV.
type InputRecord struct {
	City        string
	CountryCode string // ISO 3166-1 alpha-2
	Currency    string // ISO 4217 alpha-3
	Amount      float64
	Line        int // 1-based data row index, used in diagnostics
}

// GeoResult holds coordinates resolved for a city. Both pointers are nil when
// the lookup failed or returned no match.
type GeoResult struct {
	Lat *float64
	Lon *float64
}

// Resolved reports whether the lookup produced usable coordinates.
func (g GeoResult) Resolved() bool {
	return g.Lat != nil && g.Lon != nil
}

// WeatherResult holds current conditions at a coordinate pair. Both pointers
// are nil when the lookup failed or was never attempted.
type WeatherResult struct {
	TemperatureC *float64
	WindSpeedMPS *float64
}

// FxSource identifies which stage of the currency chain produced a rate.
type FxSource string

const (
	FxPrimary  FxSource = "primary"
	FxFallback FxSource = "fallback"
	FxNone     FxSource = "none"
)

// FxResult holds a conversion rate to USD. Source FxNone implies a nil rate.
type FxResult struct {
	RateToUSD *float64
	Source    FxSource
}

// EnrichedRecord is the output shape: the input row plus lookup results.
// Nullable fields serialize to JSON null when the lookup degraded.
type EnrichedRecord struct {
	City         string   `json:"city"`
	CountryCode  string   `json:"country_code"`
	Currency     string   `json:"local_currency"`
	AmountLocal  float64  `json:"amount_local"`
	FxRateToUSD  *float64 `json:"fx_rate_to_usd"`
	AmountUSD    *float64 `json:"amount_usd"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	TemperatureC *float64 `json:"temperature_c"`
	WindSpeedMPS *float64 `json:"wind_speed_mps"`
	RetrievedAt  string   `json:"retrieved_at"`
}

// Float returns a pointer to v. Convenience for building nullable fields.
func Float(v float64) *float64 {
	return &v
}
