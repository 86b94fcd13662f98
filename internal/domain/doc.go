// Package domain models expense records and their enriched counterparts.
//
// # Data Source
//
// Input records come from a CSV of city-level expenses with the columns
// city, country_code, local_currency, amount. The csvfile adapter parses and
// validates structure; the domain only ever sees well-typed records.
//
// # Enrichment
//
// Each record is augmented with three independent lookups:
//
//	geocoding:  (city, country_code) → latitude/longitude
//	weather:    (latitude, longitude) → current temperature and wind speed
//	fx:         local_currency → rate to USD (primary provider, then fallback)
//
// Weather depends on geocoding output; a record whose city cannot be resolved
// carries null coordinates and null weather. FX is independent of both.
// Every lookup degrades to null fields on failure rather than failing the
// record — only a non-positive amount excludes a record from the output.
//
// # Null Semantics
//
// Nullable enriched fields are *float64 and serialize to JSON null. The
// amount_usd field is null exactly when fx_rate_to_usd is null; when a rate
// exists, amount_usd = amount_local × rate rounded to 2 decimal places
// (half away from zero). See [Assemble].
//
// # Timestamps
//
// retrieved_at is RFC 3339 UTC at second precision with a "Z" suffix, taken
// from the package clock. Tests freeze it via [SetClock].
package domain
