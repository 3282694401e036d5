// Package iouniprot downloads protein sequences of NCBI taxa from the
// UniProt REST service in FASTA format.
package iouniprot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/taxonomy"
)

// maxErrBody limits how much of an error response goes into the error.
const maxErrBody = 512

// Client queries the UniProt stream endpoint.
type Client struct {
	url       string
	batchSize int
	http      *http.Client
}

// New creates a Client from fetch settings.
func New(cfg config.FetchConfig) *Client {
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	return &Client{
		url:       cfg.URL,
		batchSize: batchSize,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
}

// Query builds the UniProt query for a batch of taxa, for example
// "(taxonomy_id:662 OR taxonomy_id:1386) AND (reviewed:true)".
func Query(ids []taxonomy.TaxonID, reviewed bool) string {
	terms := make([]string, len(ids))
	for i, id := range ids {
		terms[i] = "taxonomy_id:" + id.String()
	}
	res := "(" + strings.Join(terms, " OR ") + ")"
	if reviewed {
		res += " AND (reviewed:true)"
	}
	return res
}

// Fetch returns a FASTA stream with proteins of all given taxa.
//
// Taxa are sent in batches, one request per batch. The first request
// runs before Fetch returns, so a wrong URL or a rejected query is
// reported right away; the following ones run as the stream is read.
// Responses are concatenated in batch order. Unclassified ids are
// skipped.
func (c *Client) Fetch(
	ctx context.Context,
	ids []taxonomy.TaxonID,
	reviewed bool,
) (io.ReadCloser, error) {
	var clean []taxonomy.TaxonID
	for _, id := range ids {
		if id != taxonomy.Unclassified {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return nil, RequestError(c.url, errors.New("no taxa to fetch"))
	}

	var batches [][]taxonomy.TaxonID
	for i := 0; i < len(clean); i += c.batchSize {
		end := min(i+c.batchSize, len(clean))
		batches = append(batches, clean[i:end])
	}

	res := &stream{ctx: ctx, c: c, batches: batches, reviewed: reviewed}
	if err := res.next(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) request(
	ctx context.Context,
	ids []taxonomy.TaxonID,
	reviewed bool,
) (io.ReadCloser, error) {
	params := url.Values{}
	params.Set("query", Query(ids, reviewed))
	params.Set("format", "fasta")
	u := c.url + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, RequestError(c.url, err)
	}
	req.Header.Set("Accept", "text/plain")

	slog.Info("Requesting protein sequences", "url", c.url, "taxa", len(ids))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, RequestError(c.url, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, StatusError(c.url, resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

// stream concatenates response bodies of consecutive batches.
type stream struct {
	ctx      context.Context
	c        *Client
	batches  [][]taxonomy.TaxonID
	reviewed bool
	cur      io.ReadCloser
	last     byte
	pending  bool
}

func (s *stream) next() error {
	body, err := s.c.request(s.ctx, s.batches[0], s.reviewed)
	if err != nil {
		return err
	}
	s.batches = s.batches[1:]
	s.cur = body
	return nil
}

func (s *stream) Read(p []byte) (int, error) {
	for {
		if len(p) == 0 {
			return 0, nil
		}
		// a body without final newline must not glue to the next one
		if s.pending {
			s.pending = false
			p[0] = '\n'
			s.last = '\n'
			return 1, nil
		}

		if s.cur == nil {
			if len(s.batches) == 0 {
				return 0, io.EOF
			}
			if err := s.next(); err != nil {
				return 0, err
			}
		}

		n, err := s.cur.Read(p)
		if n > 0 {
			s.last = p[n-1]
		}
		if errors.Is(err, io.EOF) {
			s.cur.Close()
			s.cur = nil
			s.pending = s.last != 0 && s.last != '\n' && len(s.batches) > 0
			if n > 0 {
				return n, nil
			}
			continue
		}
		if err != nil {
			return n, RequestError(s.c.url, err)
		}
		return n, nil
	}
}

func (s *stream) Close() error {
	s.batches = nil
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur = nil
	return err
}
