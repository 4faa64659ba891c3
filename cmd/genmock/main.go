// Command genmock writes a synthetic monthly temperature dataset in the same
// shape as the published document. It is used for offline development and
// fixtures; the same seed always produces the same file.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/global-temperature.json
//	go run ./cmd/genmock -start 1900 -end 1999 -seed 7 -out -
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/file"
	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// options controls the generated series.
type options struct {
	start, end int
	base       float64
	trend      float64 // warming per century, in degrees
	noise      float64 // standard deviation of monthly noise
	seed       uint64
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("genmock", flag.ContinueOnError)
	out := fs.String("out", "", "output path, or - for stdout")
	var opts options
	fs.IntVar(&opts.start, "start", 1753, "first year")
	fs.IntVar(&opts.end, "end", 2015, "last year")
	fs.Float64Var(&opts.base, "base", 8.66, "base temperature")
	fs.Float64Var(&opts.trend, "trend", 1.5, "warming per century")
	fs.Float64Var(&opts.noise, "noise", 0.8, "monthly noise standard deviation")
	fs.Uint64Var(&opts.seed, "seed", 1, "random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	ds, err := generate(opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	if *out == "-" {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	if err := file.WriteAtomic(*out, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d observations to %s\n", len(ds.MonthlyVariance), *out)
	return nil
}

// generate produces a linear warming trend plus a seasonal swing and
// gaussian noise, rounded to three decimals like the published data.
func generate(opts options) (domain.Dataset, error) {
	if opts.end < opts.start {
		return domain.Dataset{}, fmt.Errorf("end year %d before start year %d", opts.end, opts.start)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	years := opts.end - opts.start + 1
	ds := domain.Dataset{
		BaseTemperature: opts.base,
		MonthlyVariance: make([]domain.Observation, 0, years*12),
	}
	for year := opts.start; year <= opts.end; year++ {
		centuries := float64(year-opts.start) / 100
		for month := 1; month <= 12; month++ {
			seasonal := 0.3 * math.Sin(2*math.Pi*float64(month-1)/12)
			v := opts.trend*centuries - opts.trend/2 + seasonal + rng.NormFloat64()*opts.noise
			ds.MonthlyVariance = append(ds.MonthlyVariance, domain.Observation{
				Year:     year,
				Month:    month,
				Variance: math.Round(v*1000) / 1000,
			})
		}
	}
	return ds, ds.Validate()
}
