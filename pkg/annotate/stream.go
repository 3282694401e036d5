package annotate

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/gnames/mpdb/pkg/fasta"
	"golang.org/x/sync/errgroup"
)

type job struct {
	rec fasta.Record
	hdr string
	ok  bool
}

// Annotate reads FASTA records from r and writes them to w with
// annotated headers. Headers are resolved by concurrent workers, records
// are written in input order.
func (a *Annotator) Annotate(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
) (Stats, error) {
	var stats Stats
	chIn := make(chan fasta.Record)
	chOut := make(chan job)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		return fasta.Scan(gCtx, r, func(rec fasta.Record) error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- rec:
				return nil
			}
		})
	})

	var wg sync.WaitGroup
	for range a.jobs {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return a.worker(gCtx, chIn, chOut)
		})
	}

	g.Go(func() error {
		var err error
		stats, err = a.write(gCtx, w, chOut)
		return err
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	if err := g.Wait(); err != nil {
		return stats, AnnotateError(err)
	}
	return stats, nil
}

func (a *Annotator) worker(
	ctx context.Context,
	chIn <-chan fasta.Record,
	chOut chan<- job,
) error {
	for rec := range chIn {
		j := job{rec: rec}
		if !rec.Preamble {
			tag, ok, err := a.tag(ctx, rec.Header)
			if err != nil {
				return err
			}
			j.hdr = stamp(rec.Header, tag)
			j.ok = ok
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- j:
		}
	}
	return nil
}

// write re-sequences finished jobs by record number.
func (a *Annotator) write(
	ctx context.Context,
	w io.Writer,
	chOut <-chan job,
) (Stats, error) {
	var stats Stats
	bw := bufio.NewWriter(w)
	pending := make(map[int]job)
	next := 0

	for j := range chOut {
		pending[j.rec.Num] = j
		for {
			p, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if err := fasta.Write(bw, p.rec, p.hdr); err != nil {
				return stats, err
			}
			if p.rec.Preamble {
				continue
			}
			stats.Records++
			if p.ok {
				stats.Annotated++
			} else {
				stats.NotFound++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, bw.Flush()
}
