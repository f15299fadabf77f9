package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/LavaJover/shvark-price-etl/internal/domain"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{"timestamp", "price_usd", "price_real"}

type jsonRecord struct {
	Timestamp string  `json:"timestamp"`
	PriceUSD  float64 `json:"price_usd"`
	PriceReal float64 `json:"price_real"`
}

// DefaultFilename is the output path used when none is given.
func DefaultFilename(format string) string {
	return "prices." + format
}

func Write(w io.Writer, format string, records []*domain.PriceRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func WriteCSV(w io.Writer, records []*domain.PriceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.FormattedTimestamp(),
			strconv.FormatFloat(r.PriceUSD, 'f', -1, 64),
			strconv.FormatFloat(r.PriceReal, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, records []*domain.PriceRecord) error {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{
			Timestamp: r.FormattedTimestamp(),
			PriceUSD:  r.PriceUSD,
			PriceReal: r.PriceReal,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
