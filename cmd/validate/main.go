// Command validate checks an enriched JSON output file against its source
// CSV. It verifies record counts and ordering, the amount_usd/fx_rate_to_usd
// pairing invariant, the geocoding→weather dependency invariant, rounding,
// and timestamp format.
//
// Usage:
//
//	go run ./cmd/validate -csv expenses.csv -json enriched.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/csvfile"
	"github.com/tripline/expense-enricher/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the source expense CSV")
	jsonPath := flag.String("json", "", "path to the enriched JSON output")
	flag.Parse()

	if *csvPath == "" || *jsonPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *jsonPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, jsonPath string) int {
	fmt.Println("=== Enriched Output Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inputs, err := csvfile.NewReader(logger).ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load JSON: %v\n", err)
		return 1
	}
	var enriched []domain.EnrichedRecord
	if err := json.Unmarshal(data, &enriched); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkOrdering(inputs, enriched),
		checkFxInvariant(enriched),
		checkWeatherDependency(enriched),
		checkTimestamps(enriched),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// checkOrdering verifies every enriched record matches a source row, in
// source order. Fewer outputs than inputs is legal (invalid rows are
// skipped), but order and field values must line up.
func checkOrdering(inputs []domain.InputRecord, enriched []domain.EnrichedRecord) *phase {
	p := &phase{name: "ordering and field passthrough"}

	if len(enriched) > len(inputs) {
		p.errorf("more enriched records (%d) than source rows (%d)", len(enriched), len(inputs))
		return p
	}

	i := 0
	for _, out := range enriched {
		for i < len(inputs) && !matches(inputs[i], out) {
			i++
		}
		if i == len(inputs) {
			p.errorf("enriched record for %q/%g has no matching source row in order", out.City, out.AmountLocal)
			return p
		}
		i++
	}
	return p
}

func matches(in domain.InputRecord, out domain.EnrichedRecord) bool {
	return in.City == out.City &&
		in.CountryCode == out.CountryCode &&
		in.Currency == out.Currency &&
		in.Amount == out.AmountLocal
}

// checkFxInvariant verifies amount_usd is null exactly when fx_rate_to_usd
// is null, and that set values honor the 2-decimal rounding rule.
func checkFxInvariant(enriched []domain.EnrichedRecord) *phase {
	p := &phase{name: "amount_usd/fx_rate pairing and rounding"}

	for i, out := range enriched {
		switch {
		case out.FxRateToUSD == nil && out.AmountUSD != nil:
			p.errorf("record %d (%s): amount_usd set without a rate", i, out.City)
		case out.FxRateToUSD != nil && out.AmountUSD == nil:
			p.errorf("record %d (%s): rate set without amount_usd", i, out.City)
		case out.FxRateToUSD != nil:
			want := math.Round(out.AmountLocal**out.FxRateToUSD*100) / 100
			if math.Abs(want-*out.AmountUSD) > 1e-9 {
				p.errorf("record %d (%s): amount_usd %g, want %g", i, out.City, *out.AmountUSD, want)
			}
		}
	}
	return p
}

// checkWeatherDependency verifies no record carries weather without
// coordinates.
func checkWeatherDependency(enriched []domain.EnrichedRecord) *phase {
	p := &phase{name: "weather requires coordinates"}

	for i, out := range enriched {
		hasCoords := out.Latitude != nil && out.Longitude != nil
		hasWeather := out.TemperatureC != nil || out.WindSpeedMPS != nil
		if hasWeather && !hasCoords {
			p.errorf("record %d (%s): weather fields set without coordinates", i, out.City)
		}
		if (out.Latitude == nil) != (out.Longitude == nil) {
			p.errorf("record %d (%s): latitude and longitude must be null together", i, out.City)
		}
	}
	return p
}

// checkTimestamps verifies retrieved_at is RFC 3339 UTC with second
// precision and a Z suffix.
func checkTimestamps(enriched []domain.EnrichedRecord) *phase {
	p := &phase{name: "retrieved_at format"}

	for i, out := range enriched {
		ts, err := time.Parse(time.RFC3339, out.RetrievedAt)
		if err != nil {
			p.errorf("record %d (%s): bad retrieved_at %q: %v", i, out.City, out.RetrievedAt, err)
			continue
		}
		if ts.Nanosecond() != 0 {
			p.errorf("record %d (%s): retrieved_at has sub-second precision", i, out.City)
		}
		if out.RetrievedAt[len(out.RetrievedAt)-1] != 'Z' {
			p.errorf("record %d (%s): retrieved_at missing Z suffix", i, out.City)
		}
	}
	return p
}
