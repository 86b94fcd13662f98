package domain

import "context"

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	// Resolve returns the coordinates of the best candidate for the city,
	// preferring candidates in the requested country. A failed or empty
	// lookup returns a zero GeoResult and the underlying error.
	Resolve(ctx context.Context, city, countryCode string) (GeoResult, error)
}

// WeatherProvider fetches current conditions for a coordinate pair.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (WeatherResult, error)
}

// RateProvider fetches the conversion rate from one unit of a currency to USD.
type RateProvider interface {
	Rate(ctx context.Context, currency string) (float64, error)
}
