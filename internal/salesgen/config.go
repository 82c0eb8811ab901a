package salesgen

import "time"

// Config holds configuration for a generator run.
type Config struct {
	BaseURL        string        // Base URL of a running service; empty skips refresh and verification
	Carriers       int           // Number of carriers to generate
	CrewPerCarrier int           // Crew members per carrier
	MaxRowsPerCrew int           // Upper bound of sales batches per crew member
	MaxQuantity    int           // Upper bound of a single batch quantity
	Seed           int64         // Seed for deterministic output
	OutputFile     string        // CSV file to write
	Timeout        time.Duration // HTTP request timeout
	Verbose        bool          // Log every mismatch instead of a summary
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated int
	Carriers      int
	CrewMembers   int
	Mismatches    int
	Verified      bool
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
