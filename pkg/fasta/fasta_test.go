package fasta_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gnames/mpdb/pkg/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) []fasta.Record {
	t.Helper()
	var res []fasta.Record
	err := fasta.Scan(context.Background(), strings.NewReader(input),
		func(r fasta.Record) error {
			res = append(res, r)
			return nil
		})
	require.NoError(t, err)
	return res
}

func TestScan(t *testing.T) {
	input := ">sp|P1|A OS=Vibrio OX=666 GN=a\nMKV\nLLA\n\n>sp|P2|B\r\nMMM\r\n>empty"
	recs := collect(t, input)
	require.Len(t, recs, 3)

	assert.Equal(t, 0, recs[0].Num)
	assert.Equal(t, "sp|P1|A OS=Vibrio OX=666 GN=a", recs[0].Header)
	assert.Equal(t, "\n", recs[0].EOL)
	assert.Equal(t, "MKV\nLLA\n\n", string(recs[0].Body))

	assert.Equal(t, "sp|P2|B", recs[1].Header)
	assert.Equal(t, "\r\n", recs[1].EOL)
	assert.Equal(t, "MMM\r\n", string(recs[1].Body))

	assert.Equal(t, 2, recs[2].Num)
	assert.Equal(t, "empty", recs[2].Header)
	assert.Equal(t, "", recs[2].EOL)
	assert.Empty(t, recs[2].Body)
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	inputs := []string{
		"",
		">a\nAAA\n",
		"; comment\n>a\nAAA\nCCC",
		">a\r\nAA\r\n>b\n\n\nGG\n",
		"no header at all\n",
	}

	for _, in := range inputs {
		var buf bytes.Buffer
		for _, r := range collect(t, in) {
			require.NoError(t, fasta.Write(&buf, r, r.Header))
		}
		assert.Equal(t, in, buf.String())
	}
}

func TestScanPreamble(t *testing.T) {
	recs := collect(t, "; comment\n>a\nAAA\n")
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Preamble)
	assert.Equal(t, "; comment\n", string(recs[0].Body))
	assert.False(t, recs[1].Preamble)
	assert.Equal(t, 1, recs[1].Num)
}

func TestScanStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	var n int
	err := fasta.Scan(context.Background(), strings.NewReader(">a\nA\n>b\nB\n"),
		func(fasta.Record) error {
			n++
			return stop
		})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestScanCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fasta.Scan(ctx, strings.NewReader(">a\nA\n"),
		func(fasta.Record) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
