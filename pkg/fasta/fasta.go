// Package fasta splits FASTA streams into records without altering a
// single byte of them, so that a record can be written back exactly as it
// was read, apart from a rewritten header.
package fasta

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record is one FASTA entry.
type Record struct {
	// Num is the 0-based position of the record in the stream.
	Num int

	// Header is the text after '>' without the line terminator. It is empty
	// for a preamble record.
	Header string

	// EOL is the terminator of the header line: "\n", "\r\n" or "" when the
	// header is the last line of a stream without a trailing newline.
	EOL string

	// Body keeps all lines after the header verbatim, terminators included.
	Body []byte

	// Preamble marks text that precedes the first header. Such a record has
	// no header and is written back unchanged.
	Preamble bool
}

// Scan reads records from r and passes them to fn in input order. It
// stops at the first error returned by fn or when ctx is done.
func Scan(ctx context.Context, r io.Reader, fn func(Record) error) error {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		rec     Record
		started bool
		num     int
	)

	emit := func() error {
		if !started {
			return nil
		}
		rec.Num = num
		num++
		return fn(rec)
	}

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if line[0] == '>' {
				if err := emit(); err != nil {
					return err
				}
				hdr, eol := splitEOL(line[1:])
				rec = Record{Header: hdr, EOL: eol}
				started = true
			} else {
				if !started {
					rec = Record{Preamble: true}
					started = true
				}
				rec.Body = append(rec.Body, line...)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("fasta scan: %w", err)
		}
	}

	return emit()
}

// Write writes rec to w, replacing its header with header.
func Write(w io.Writer, rec Record, header string) error {
	if !rec.Preamble {
		if _, err := io.WriteString(w, ">"+header+rec.EOL); err != nil {
			return err
		}
	}
	_, err := w.Write(rec.Body)
	return err
}

func splitEOL(s string) (string, string) {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2], "\r\n"
	}
	if strings.HasSuffix(s, "\n") {
		return s[:len(s)-1], "\n"
	}
	return s, ""
}
