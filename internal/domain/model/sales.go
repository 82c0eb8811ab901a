// Package model contains domain models passed between layers.
package model

// SalesRecord is one row of the published sales CSV.
// A crew member may appear in many rows; each row is a partial batch, not a running total.
type SalesRecord struct {
	CarrierCode string // Airline_Code
	CrewID      string // Crew_ID
	CrewName    string // Crew_Name, display only
	Quantity    int64  // crew_sold_quantity, always >= 0
}

// Column names required in the source header. Matching is case-sensitive.
const (
	ColumnCarrierCode = "Airline_Code"
	ColumnCrewID      = "Crew_ID"
	ColumnCrewName    = "Crew_Name"
	ColumnQuantity    = "crew_sold_quantity"
)

// RequiredColumns lists the header fields every payload must carry, in canonical order.
var RequiredColumns = []string{ColumnCarrierCode, ColumnCrewID, ColumnCrewName, ColumnQuantity} //nolint:gochecknoglobals // read-only column list
