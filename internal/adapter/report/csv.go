package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
)

var header = []string{"client", "available", "held", "total", "locked"}

// CSVWriter writes balance snapshots as CSV, one row per client.
type CSVWriter struct {
	out io.Writer
}

// NewCSVWriter creates a CSVWriter writing to out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

// WriteBalances writes a header followed by one row per snapshot. Money
// fields are printed with exactly four decimal places.
func (w *CSVWriter) WriteBalances(ctx context.Context, balances []domain.BalanceSnapshot) error {
	cw := csv.NewWriter(w.out)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, b := range balances {
		if err := ctx.Err(); err != nil {
			return err
		}

		row[0] = strconv.FormatUint(uint64(b.ClientID), 10)
		row[1] = b.Available.StringFixed(domain.SnapshotPrecision)
		row[2] = b.Held.StringFixed(domain.SnapshotPrecision)
		row[3] = b.Total.StringFixed(domain.SnapshotPrecision)
		row[4] = strconv.FormatBool(b.Locked)

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write client %d: %w", b.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
