package iouniprot_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/mpdb/internal/iouniprot"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorder) handler(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	r.mu.Lock()
	r.queries = append(r.queries, q.Get("query"))
	r.mu.Unlock()

	if q.Get("format") != "fasta" {
		http.Error(w, "bad format", http.StatusBadRequest)
		return
	}
	// the last record of every response lacks a final newline
	n := len(r.queries)
	_, _ = io.WriteString(w, ">sp|P"+strings.Repeat("0", n)+" OX=662\nMKV")
}

func testClient(url string, batch int) *iouniprot.Client {
	cfg := config.New()
	cfg.Fetch.URL = url
	cfg.Fetch.BatchSize = batch
	cfg.Fetch.TimeoutSec = 5
	return iouniprot.New(cfg.Fetch)
}

func TestQuery(t *testing.T) {
	ids := []taxonomy.TaxonID{662, 1386}
	assert.Equal(t,
		"(taxonomy_id:662 OR taxonomy_id:1386)",
		iouniprot.Query(ids, false))
	assert.Equal(t,
		"(taxonomy_id:662 OR taxonomy_id:1386) AND (reviewed:true)",
		iouniprot.Query(ids, true))
}

func TestFetchBatches(t *testing.T) {
	rec := &recorder{}
	ts := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer ts.Close()

	c := testClient(ts.URL, 2)
	ids := []taxonomy.TaxonID{662, taxonomy.Unclassified, 1386, 2}
	r, err := c.Fetch(context.Background(), ids, true)
	require.NoError(t, err)

	// only the first batch is requested before reading
	rec.mu.Lock()
	assert.Len(t, rec.queries, 1)
	rec.mu.Unlock()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, ">sp|P0 OX=662\nMKV\n>sp|P00 OX=662\nMKV", string(data))
	assert.Equal(t, []string{
		"(taxonomy_id:662 OR taxonomy_id:1386) AND (reviewed:true)",
		"(taxonomy_id:2) AND (reviewed:true)",
	}, rec.queries)
}

func TestFetchStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "invalid query", http.StatusBadRequest)
		}))
	defer ts.Close()

	c := testClient(ts.URL, 10)
	_, err := c.Fetch(context.Background(), []taxonomy.TaxonID{662}, false)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.FetchStatusError, gnErr.Code)
	assert.Equal(t, []any{ts.URL, http.StatusBadRequest}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "invalid query")
}

func TestFetchLaterBatchFails(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls > 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = io.WriteString(w, ">a\nM\n")
		}))
	defer ts.Close()

	c := testClient(ts.URL, 1)
	r, err := c.Fetch(context.Background(), []taxonomy.TaxonID{1, 2}, false)
	require.NoError(t, err)
	defer r.Close()

	_, err = io.ReadAll(r)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.FetchStatusError, gnErr.Code)
}

func TestFetchErrors(t *testing.T) {
	c := testClient("http://127.0.0.1:1", 10)

	_, err := c.Fetch(context.Background(), nil, false)
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.FetchRequestError))

	_, err = c.Fetch(context.Background(),
		[]taxonomy.TaxonID{taxonomy.Unclassified}, false)
	require.Error(t, err)

	_, err = c.Fetch(context.Background(), []taxonomy.TaxonID{662}, false)
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.FetchRequestError))
}
