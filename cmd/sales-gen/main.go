package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/crewboard/internal/salesgen"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	var (
		baseURL     = flag.String("url", "", "Base URL of a running service to refresh and verify (empty: only write the file)")
		carriers    = flag.Int("carriers", salesgen.DefaultCarriers, "Number of carriers")
		crew        = flag.Int("crew", salesgen.DefaultCrewPerCarrier, "Crew members per carrier")
		rows        = flag.Int("rows", salesgen.DefaultMaxRowsPerCrew, "Maximum sales batches per crew member")
		maxQuantity = flag.Int("max-quantity", salesgen.DefaultMaxQuantity, "Maximum quantity of a single batch")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
		outputFile  = flag.String("output", salesgen.DefaultOutputFile, "CSV file to write")
		timeout     = flag.Duration("timeout", salesgen.DefaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Also write logs to this file")
		verbose     = flag.Bool("verbose", false, "Log every mismatch")
	)
	flag.Parse()

	closer, err := salesgen.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &salesgen.Config{
		BaseURL:        *baseURL,
		Carriers:       *carriers,
		CrewPerCarrier: *crew,
		MaxRowsPerCrew: *rows,
		MaxQuantity:    *maxQuantity,
		Seed:           *seed,
		OutputFile:     *outputFile,
		Timeout:        *timeout,
		Verbose:        *verbose,
	}

	if _, err := salesgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		cancel()
		closer.Close()
		os.Exit(1)
	}
}
