package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/okian/crewboard/internal/adapters/export"
	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/model"
	"github.com/okian/crewboard/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleBoard() *leaderboard.Leaderboard {
	return leaderboard.Build([]model.SalesRecord{
		{CarrierCode: "AA", CrewID: "C1", CrewName: "Alice", Quantity: 5},
		{CarrierCode: "AA", CrewID: "C2", CrewName: "Bob", Quantity: 9},
		{CarrierCode: "AA", CrewID: "C1", CrewName: "Alice", Quantity: 3},
		{CarrierCode: "BB", CrewID: "C3", CrewName: "Carl", Quantity: 12000},
	})
}

func newExporter() *export.Exporter {
	return export.NewExporter(export.WithClock(func() time.Time { return fixedNow }))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []export.Format
		wantErr bool
	}{
		{name: "single", in: "csv", want: []export.Format{export.FormatCSV}},
		{name: "list with spaces", in: " csv, PDF ,json", want: []export.Format{export.FormatCSV, export.FormatPDF, export.FormatJSON}},
		{name: "yml alias and duplicates", in: "yml,yaml", want: []export.Format{export.FormatYAML}},
		{name: "unknown", in: "csv,xlsx", wantErr: true},
		{name: "empty", in: " , ", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := export.ParseFormats(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, export.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestQuantityAndMedal(t *testing.T) {
	require.Equal(t, "0", export.Quantity(0))
	require.Equal(t, "999", export.Quantity(999))
	require.Equal(t, "12,000", export.Quantity(12000))
	require.Equal(t, "1,234,567", export.Quantity(1234567))

	require.Equal(t, "Gold", export.Medal(1))
	require.Equal(t, "Silver", export.Medal(2))
	require.Equal(t, "Bronze", export.Medal(3))
	require.Empty(t, export.Medal(4))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, newExporter().Document(sampleBoard())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"carrier", "tier", "rank", "crew_id", "crew_name", "total_quantity"},
		{"AA", "PODIUM", "1", "C2", "Bob", "9"},
		{"AA", "PODIUM", "2", "C1", "Alice", "8"},
		{"BB", "PODIUM", "1", "C3", "Carl", "12000"},
	}, records)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, newExporter().Document(leaderboard.Build(nil))))
	require.Equal(t, "carrier,tier,rank,crew_id,crew_name,total_quantity\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, newExporter().Document(sampleBoard())))

	out := buf.String()
	require.Contains(t, out, `"generated_at": "2025-03-14T09:26:53Z"`)
	require.Contains(t, out, `"crew_name": "Bob"`)
	require.Contains(t, out, `"others": []`)
	require.Contains(t, out, `"empty": false`)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteYAML(&buf, newExporter().Document(sampleBoard())))

	var doc export.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.False(t, doc.Empty)
	require.True(t, doc.GeneratedAt.Equal(fixedNow))
	require.Len(t, doc.Carriers, 2)
	require.Equal(t, "AA", doc.Carriers[0].Carrier)
	require.Equal(t, leaderboard.Entry{Rank: 1, CrewName: "Bob", CrewID: "C2", TotalQuantity: 9}, doc.Carriers[0].Podium[0])
}

func TestWritePDF(t *testing.T) {
	for name, lb := range map[string]*leaderboard.Leaderboard{
		"populated": sampleBoard(),
		"empty":     leaderboard.Build(nil),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, export.WritePDF(&buf, newExporter().Document(lb), export.DefaultTitle))
			require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestExport_Files(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	exp := newExporter()

	paths, err := exp.Export(context.Background(), sampleBoard(), export.Formats, "board", dir)
	require.NoError(t, err)
	require.Len(t, paths, len(export.Formats))

	for i, f := range export.Formats {
		require.True(t, filepath.IsAbs(paths[i]))
		require.Equal(t, "board_20250314_092653."+string(f), filepath.Base(paths[i]))
		info, err := os.Stat(paths[i])
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestExport_Errors(t *testing.T) {
	exp := newExporter()
	dir := t.TempDir()

	_, err := exp.Export(context.Background(), sampleBoard(), []export.Format{"xlsx"}, "board", dir)
	require.ErrorIs(t, err, export.ErrUnsupportedFormat)

	_, err = exp.Export(context.Background(), sampleBoard(), export.Formats, "  ", dir)
	require.ErrorIs(t, err, export.ErrNoName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	paths, err := exp.Export(ctx, sampleBoard(), export.Formats, "board", dir)
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, paths)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExporter_Write(t *testing.T) {
	var buf bytes.Buffer
	exp := newExporter()
	require.NoError(t, exp.Write(&buf, exp.Document(sampleBoard()), export.FormatCSV))
	require.True(t, strings.HasPrefix(buf.String(), "carrier,tier"))

	require.ErrorIs(t, exp.Write(&buf, exp.Document(sampleBoard()), "docx"), export.ErrUnsupportedFormat)
}
