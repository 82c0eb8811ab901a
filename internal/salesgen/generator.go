package salesgen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/crewboard/internal/domain/model"
	"github.com/okian/crewboard/pkg/logger"
)

var carrierCodes = []string{ //nolint:gochecknoglobals // read-only code list
	"AA", "AF", "BA", "CX", "DL", "EK", "JL", "KL", "LH", "NH", "QF", "QR", "SQ", "TK", "UA", "VS",
}

var firstNames = []string{ //nolint:gochecknoglobals // read-only name list
	"Amelia", "Bruno", "Chen", "Dana", "Emeka", "Freya", "Goran", "Hana", "Ines", "Jonas",
	"Kemal", "Lucia", "Mateo", "Nadia", "Oskar", "Priya", "Rafael", "Sana", "Tomas", "Yuki",
}

var lastNames = []string{ //nolint:gochecknoglobals // read-only name list
	"Almeida", "Becker", "Costa", "Dubois", "Eriksen", "Fischer", "Garcia", "Haddad", "Ito", "Jensen",
	"Kowalski", "Larsen", "Moreau", "Novak", "Okafor", "Petrov", "Rossi", "Silva", "Tanaka", "Weber",
}

// Generate builds a deterministic set of sales rows for cfg.Seed. Every crew member
// gets between 1 and MaxRowsPerCrew batches; batches are interleaved across crew and
// carriers the way a real export accumulates them.
func Generate(cfg *Config) ([]model.SalesRecord, error) {
	if cfg.Carriers <= 0 || cfg.Carriers > len(carrierCodes) {
		return nil, fmt.Errorf("carriers must be between 1 and %d", len(carrierCodes))
	}
	if cfg.CrewPerCarrier <= 0 || cfg.MaxRowsPerCrew <= 0 || cfg.MaxQuantity < 0 {
		return nil, fmt.Errorf("crew, rows and quantity bounds must be positive")
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible test data

	var rows []model.SalesRecord
	for _, carrier := range carrierCodes[:cfg.Carriers] {
		for i := 0; i < cfg.CrewPerCarrier; i++ {
			id, err := uuid.NewRandomFromReader(rng)
			if err != nil {
				return nil, fmt.Errorf("crew id: %w", err)
			}
			name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
			batches := 1 + rng.Intn(cfg.MaxRowsPerCrew)
			for b := 0; b < batches; b++ {
				rows = append(rows, model.SalesRecord{
					CarrierCode: carrier,
					CrewID:      id.String(),
					CrewName:    name,
					Quantity:    int64(rng.Intn(cfg.MaxQuantity + 1)),
				})
			}
		}
	}

	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows, nil
}

// WriteCSV writes rows with the column header the service expects.
func WriteCSV(w io.Writer, rows []model.SalesRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.RequiredColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.CarrierCode, r.CrewID, r.CrewName, strconv.FormatInt(r.Quantity, 10)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// saveRows writes rows to filename, creating its directory when needed.
func saveRows(ctx context.Context, filename string, rows []model.SalesRecord) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteCSV(file, rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	logger.Get().Info(ctx, "sales saved to file", logger.String("filename", filename), logger.Int("rows", len(rows)))
	return nil
}
