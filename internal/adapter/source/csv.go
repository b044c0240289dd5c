package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// Column names expected in the CSV header.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

// ErrMalformedRow is returned by ParseRow for rows that cannot be turned
// into a transaction.
var ErrMalformedRow = errors.New("malformed row")

// CSVSource reads transactions from CSV with a header of
// type,client,tx,amount. The amount column may be missing or empty for
// dispute, resolve and chargeback rows. Malformed rows are skipped.
type CSVSource struct {
	reader  *csv.Reader
	columns map[string]int
	logger  zerolog.Logger
	metrics *metrics.Metrics
	skipped int
	done    bool
}

// NewCSVSource creates a CSVSource reading from r.
func NewCSVSource(r io.Reader, logger zerolog.Logger, m *metrics.Metrics) *CSVSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	return &CSVSource{
		reader:  reader,
		logger:  logger,
		metrics: m,
	}
}

// Skipped returns the number of malformed rows dropped so far.
func (s *CSVSource) Skipped() int {
	return s.skipped
}

// Next returns the next well-formed transaction, or io.EOF.
func (s *CSVSource) Next(ctx context.Context) (domain.Transaction, error) {
	if s.done {
		return domain.Transaction{}, io.EOF
	}

	if s.columns == nil {
		if err := s.readHeader(); err != nil {
			return domain.Transaction{}, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return domain.Transaction{}, err
		}

		rec, err := s.reader.Read()
		if err == io.EOF {
			s.done = true
			return domain.Transaction{}, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.skip(parseErr.Line, err)
				continue
			}
			return domain.Transaction{}, fmt.Errorf("read row: %w", err)
		}

		tx, err := ParseRow(rec, s.columns)
		if err != nil {
			line, _ := s.reader.FieldPos(0)
			s.skip(line, err)
			continue
		}
		return tx, nil
	}
}

func (s *CSVSource) readHeader() error {
	headers, err := s.reader.Read()
	if err == io.EOF {
		s.done = true
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	col := toIndex(headers)
	for _, k := range []string{ColumnType, ColumnClient, ColumnTx} {
		if _, ok := col[k]; !ok {
			return fmt.Errorf("missing column: %s", k)
		}
	}
	s.columns = col
	return nil
}

func (s *CSVSource) skip(line int, err error) {
	s.skipped++
	if s.metrics != nil {
		s.metrics.SourceRowsSkipped.Inc()
	}
	s.logger.Warn().Err(err).Int("line", line).Msg("skipping malformed row")
}

func toIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// ParseRow converts a CSV record into a transaction using the column
// positions in col.
func ParseRow(rec []string, col map[string]int) (domain.Transaction, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	kind, err := domain.ParseTransactionKind(field(ColumnType))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	client, err := strconv.ParseUint(field(ColumnClient), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: client: %w", ErrMalformedRow, err)
	}

	id, err := strconv.ParseUint(field(ColumnTx), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: tx: %w", ErrMalformedRow, err)
	}

	tx := domain.Transaction{
		Kind:     kind,
		ClientID: domain.ClientID(client),
		ID:       domain.TransactionID(id),
		Amount:   decimal.Zero,
	}

	if kind.IsPrimitive() {
		raw := field(ColumnAmount)
		if raw == "" {
			return domain.Transaction{}, fmt.Errorf("%w: tx %d: missing amount", ErrMalformedRow, id)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("%w: tx %d amount: %w", ErrMalformedRow, id, err)
		}
		tx.Amount = amount
	}

	return tx, nil
}
