package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/usecase"
)

var recordHeader = []string{"type", "client", "tx", "amount"}

// RecordWriter writes transaction records in the input CSV format, so a
// synthetic stream can be saved and replayed later.
type RecordWriter struct {
	out io.Writer
}

// NewRecordWriter creates a RecordWriter writing to out.
func NewRecordWriter(out io.Writer) *RecordWriter {
	return &RecordWriter{out: out}
}

// WriteRecords drains src and returns the number of records written.
// Reference kinds get an empty amount column.
func (w *RecordWriter) WriteRecords(ctx context.Context, src usecase.TransactionSource) (int, error) {
	cw := csv.NewWriter(w.out)
	if err := cw.Write(recordHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	written := 0
	row := make([]string, len(recordHeader))
	for {
		tx, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}

		row[0] = tx.Kind.String()
		row[1] = strconv.FormatUint(uint64(tx.ClientID), 10)
		row[2] = strconv.FormatUint(uint64(tx.ID), 10)
		row[3] = ""
		if tx.Kind.IsPrimitive() {
			row[3] = tx.Amount.StringFixed(domain.SnapshotPrecision)
		}

		if err := cw.Write(row); err != nil {
			return written, fmt.Errorf("write tx %d: %w", tx.ID, err)
		}
		written++
	}

	cw.Flush()
	return written, cw.Error()
}
