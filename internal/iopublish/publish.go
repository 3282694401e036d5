// Package iopublish opens output destinations of mpdb commands: local
// files, STDOUT and objects in S3-compatible storage.
package iopublish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/mpdb/pkg/config"
)

// Stdout is the destination name for the standard output.
const Stdout = "-"

// s3Scheme prefixes object destinations.
const s3Scheme = "s3://"

// newS3Client builds the S3 client; tests replace it with a mock.
var newS3Client = func(
	ctx context.Context,
	cfg config.S3Config,
) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Writer is an output destination. Close publishes written data, Abort
// discards it and leaves the destination as it was before Create.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// IsS3 reports whether dest points to S3 storage.
func IsS3(dest string) bool {
	return strings.HasPrefix(dest, s3Scheme)
}

// Create opens dest for writing. Dest is a file path, Stdout, or
// s3://bucket/key. Data for files and S3 is staged in a temporary file.
// Close renames it to the file path or uploads it and reports upload
// errors. Abort removes it.
func Create(
	ctx context.Context,
	dest string,
	cfg config.S3Config,
) (Writer, error) {
	switch {
	case dest == Stdout:
		return nopCloser{os.Stdout}, nil
	case IsS3(dest):
		return createS3(ctx, dest, cfg)
	default:
		return createFile(dest)
	}
}

type fileWriter struct {
	path string
	tmp  *os.File
}

func createFile(path string) (Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, PublishError(path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, PublishError(path, err)
	}
	return &fileWriter{path: path, tmp: tmp}, nil
}

func (w *fileWriter) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

// Close moves staged data to the destination path.
func (w *fileWriter) Close() error {
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return PublishError(w.path, err)
	}
	if err := os.Chmod(w.tmp.Name(), 0644); err != nil {
		os.Remove(w.tmp.Name())
		return PublishError(w.path, err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return PublishError(w.path, err)
	}
	return nil
}

func (w *fileWriter) Abort() error {
	w.tmp.Close()
	slog.Warn("Output is discarded", "dest", w.path)
	return os.Remove(w.tmp.Name())
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (nopCloser) Abort() error { return nil }

// ParseS3 splits s3://bucket/key into bucket and key.
func ParseS3(dest string) (string, string, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", "", err
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", errors.New("destination must look like s3://bucket/key")
	}
	return u.Host, key, nil
}

type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	dest   string
	bucket string
	key    string
	tmp    *os.File
}

func createS3(
	ctx context.Context,
	dest string,
	cfg config.S3Config,
) (Writer, error) {
	bucket, key, err := ParseS3(dest)
	if err != nil {
		return nil, PublishError(dest, err)
	}

	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, PublishError(dest, err)
	}

	tmp, err := os.CreateTemp("", "mpdb-s3-*")
	if err != nil {
		return nil, PublishError(dest, err)
	}

	res := &s3Writer{
		ctx:    ctx,
		client: client,
		dest:   dest,
		bucket: bucket,
		key:    key,
		tmp:    tmp,
	}
	return res, nil
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

// Close uploads staged data and removes the temporary file.
func (w *s3Writer) Close() error {
	defer os.Remove(w.tmp.Name())
	defer w.tmp.Close()

	size, err := w.tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		return PublishError(w.dest, err)
	}
	if _, err = w.tmp.Seek(0, io.SeekStart); err != nil {
		return PublishError(w.dest, err)
	}

	_, err = w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(w.key),
		Body:          w.tmp,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("text/plain"),
	})
	if err != nil {
		return PublishError(w.dest, err)
	}

	gn.Info("Uploaded %s bytes to <em>%s</em>",
		humanize.Comma(size), w.dest)
	slog.Info("Output uploaded", "dest", w.dest, "bytes", size)
	return nil
}

// Abort removes staged data without uploading it.
func (w *s3Writer) Abort() error {
	w.tmp.Close()
	slog.Warn("Upload is canceled", "dest", w.dest)
	return os.Remove(w.tmp.Name())
}
