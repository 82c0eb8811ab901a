package snapshot

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/okian/crewboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

const utf8BOM = "\ufeff"

// Parse decodes a delimited sales payload into records.
//
// The header row is required and must name every column in model.RequiredColumns
// (case-sensitive, any order). Extra columns are ignored. Rows whose carrier,
// crew id or crew name is blank carry no grouping key and are skipped. A
// carrier whose quantities sum past int64 is a type error, so no crew total
// built from the rows can overflow.
func Parse(r io.Reader) ([]model.SalesRecord, error) {
	rows, _, err := parse(r)
	return rows, err
}

// parse is Parse plus the number of skipped keyless rows.
func parse(r io.Reader) ([]model.SalesRecord, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, newLoadError(KindMalformedPayload, nil, "payload is empty: header row required")
		}
		return nil, 0, newLoadError(KindMalformedPayload, err, "read header: %v", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, 0, err
	}

	var (
		rows     []model.SalesRecord
		skipped  int
		carriers = make(map[string]int64)
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, newLoadError(KindMalformedPayload, err, "read row: %v", err)
		}

		carrier := strings.TrimSpace(rec[idx.carrier])
		crewID := strings.TrimSpace(rec[idx.crewID])
		crewName := strings.TrimSpace(rec[idx.crewName])
		if carrier == "" || crewID == "" || crewName == "" {
			skipped++
			continue
		}

		line, _ := cr.FieldPos(idx.quantity)
		qty, err := parseQuantity(rec[idx.quantity], line)
		if err != nil {
			return nil, 0, err
		}
		if qty > math.MaxInt64-carriers[carrier] {
			return nil, 0, newLoadError(KindTypeError, nil, "line %d: %s total for carrier %s is out of range", line, model.ColumnQuantity, carrier)
		}
		carriers[carrier] += qty

		rows = append(rows, model.SalesRecord{
			CarrierCode: carrier,
			CrewID:      crewID,
			CrewName:    crewName,
			Quantity:    qty,
		})
	}

	return rows, skipped, nil
}

type columns struct {
	carrier  int
	crewID   int
	crewName int
	quantity int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var missing []string
	for _, name := range model.RequiredColumns {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, newLoadError(KindMalformedPayload, nil, "missing required column(s): %s", strings.Join(missing, ", "))
	}

	return columns{
		carrier:  pos[model.ColumnCarrierCode],
		crewID:   pos[model.ColumnCrewID],
		crewName: pos[model.ColumnCrewName],
		quantity: pos[model.ColumnQuantity],
	}, nil
}

// parseQuantity accepts non-negative integers, including integral decimal text such as "12.0".
func parseQuantity(raw string, line int) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, newLoadError(KindTypeError, nil, "line %d: empty %s", line, model.ColumnQuantity)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, newLoadError(KindTypeError, err, "line %d: %s %q is not a number", line, model.ColumnQuantity, s)
	}
	if d.IsNegative() {
		return 0, newLoadError(KindTypeError, nil, "line %d: %s %q is negative", line, model.ColumnQuantity, s)
	}
	if !d.IsInteger() {
		return 0, newLoadError(KindTypeError, nil, "line %d: %s %q is not an integer", line, model.ColumnQuantity, s)
	}
	if !d.BigInt().IsInt64() {
		return 0, newLoadError(KindTypeError, nil, "line %d: %s %q is out of range", line, model.ColumnQuantity, s)
	}
	return d.IntPart(), nil
}
