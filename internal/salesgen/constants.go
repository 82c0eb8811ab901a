package salesgen

import "time"

// Defaults for the sales-gen command.
const (
	DefaultBaseURL        = "http://localhost:9080"
	DefaultCarriers       = 4
	DefaultCrewPerCarrier = 15
	DefaultMaxRowsPerCrew = 5
	DefaultMaxQuantity    = 40
	DefaultOutputFile     = "data/sales.csv"
	DefaultTimeout        = 30 * time.Second
)

const filePermission = 0o644

const directoryPermission = 0o750
