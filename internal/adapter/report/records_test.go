package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payengine/internal/domain"
)

type sliceSource struct {
	txs []domain.Transaction
	err error
}

func (s *sliceSource) Next(context.Context) (domain.Transaction, error) {
	if len(s.txs) == 0 {
		if s.err != nil {
			return domain.Transaction{}, s.err
		}
		return domain.Transaction{}, io.EOF
	}
	tx := s.txs[0]
	s.txs = s.txs[1:]
	return tx, nil
}

func TestRecordWriter_WritesInputFormat(t *testing.T) {
	src := &sliceSource{txs: []domain.Transaction{
		{Kind: domain.KindDeposit, ClientID: 1, ID: 1, Amount: decimal.RequireFromString("2.5")},
		{Kind: domain.KindDispute, ClientID: 1, ID: 1, Amount: decimal.Zero},
	}}

	var buf bytes.Buffer
	n, err := NewRecordWriter(&buf).WriteRecords(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "type,client,tx,amount\ndeposit,1,1,2.5000\ndispute,1,1,\n", buf.String())
}

func TestRecordWriter_SourceError(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{
		txs: []domain.Transaction{{Kind: domain.KindDeposit, ClientID: 1, ID: 1, Amount: decimal.NewFromInt(1)}},
		err: boom,
	}

	n, err := NewRecordWriter(io.Discard).WriteRecords(context.Background(), src)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}
