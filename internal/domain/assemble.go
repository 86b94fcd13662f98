package domain

import "math"

// Assemble combines an input record with its lookup results into the output
// shape. Pure: no network access, no clock access, no mutation of inputs.
// amount_usd is computed iff a rate exists, keeping the two fields null
// together or set together.
func Assemble(rec InputRecord, geo GeoResult, weather WeatherResult, fx FxResult, retrievedAt string) EnrichedRecord {
	out := EnrichedRecord{
		City:         rec.City,
		CountryCode:  rec.CountryCode,
		Currency:     rec.Currency,
		AmountLocal:  rec.Amount,
		FxRateToUSD:  fx.RateToUSD,
		Latitude:     geo.Lat,
		Longitude:    geo.Lon,
		TemperatureC: weather.TemperatureC,
		WindSpeedMPS: weather.WindSpeedMPS,
		RetrievedAt:  retrievedAt,
	}
	if fx.RateToUSD != nil {
		out.AmountUSD = Float(round2(rec.Amount * *fx.RateToUSD))
	}
	return out
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
