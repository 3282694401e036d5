package iopublish

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gnames/mpdb/pkg/config"
	"github.com/gnames/mpdb/pkg/errcode"
	"github.com/gnames/mpdb/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 keeps objects uploaded with PUT, keyed by request path.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	status  int
	puts    int
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := http.StatusOK
	if m.status != 0 {
		status = m.status
	}
	if req.Method == http.MethodPut {
		m.puts++
	}
	if req.Method == http.MethodPut && status == http.StatusOK {
		body, _ := io.ReadAll(req.Body)
		m.objects[req.URL.Path] = body
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {`"etag"`}},
		Request:    req,
	}, nil
}

func withMockS3(t *testing.T, status int) *mockS3 {
	m := &mockS3{objects: make(map[string][]byte), status: status}
	orig := newS3Client
	newS3Client = func(
		ctx context.Context,
		_ config.S3Config,
	) (*s3.Client, error) {
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("us-east-1"),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("AKIA", "SECRET", ""),
			),
		)
		if err != nil {
			return nil, err
		}
		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.HTTPClient = &http.Client{Transport: m}
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String("https://mock.s3.local")
			// keeps uploaded bodies free of aws-chunked framing
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}), nil
	}
	t.Cleanup(func() { newS3Client = orig })
	return m
}

func TestParseS3(t *testing.T) {
	tests := []struct {
		msg, dest, bucket, key string
		hasErr                 bool
	}{
		{"ok", "s3://data/run1/db.fasta", "data", "run1/db.fasta", false},
		{"no key", "s3://data", "", "", true},
		{"no key slash", "s3://data/", "", "", true},
		{"no bucket", "s3:///db.fasta", "", "", true},
		{"other scheme", "gs://data/db.fasta", "", "", true},
	}
	for _, v := range tests {
		bucket, key, err := ParseS3(v.dest)
		if v.hasErr {
			assert.Error(t, err, v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.bucket, bucket, v.msg)
		assert.Equal(t, v.key, key, v.msg)
	}
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "db.fasta")
	w, err := Create(context.Background(), path, config.S3Config{})
	require.NoError(t, err)

	_, err = io.WriteString(w, ">a TAX=not_found\nMKV\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ">a TAX=not_found\nMKV\n", string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the output file is left")
}

func TestCreateFileAbort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxa.txt")
	require.NoError(t, os.WriteFile(path, []byte("Vibrio\n"), 0644))

	w, err := Create(context.Background(), path, config.S3Config{})
	require.NoError(t, err)
	_, err = io.WriteString(w, "Bacil")
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Vibrio\n", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCreateFileError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := Create(context.Background(),
		filepath.Join(file, "db.fasta"), config.S3Config{})
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.PublishError))
}

func TestCreateStdout(t *testing.T) {
	w, err := Create(context.Background(), Stdout, config.S3Config{})
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.False(t, IsS3(Stdout))
}

func TestCreateS3(t *testing.T) {
	m := withMockS3(t, 0)
	data := strings.Repeat(">a OX=662 TAX=x\nMKV\n", 100)

	w, err := Create(context.Background(), "s3://bucket/run/db.fasta",
		config.S3Config{})
	require.NoError(t, err)
	sw, ok := w.(*s3Writer)
	require.True(t, ok)
	tmp := sw.tmp.Name()

	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, data, string(m.objects["/bucket/run/db.fasta"]))
	assert.Equal(t, 1, m.puts)
	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err), "temporary file is removed")
}

func TestCreateS3Abort(t *testing.T) {
	m := withMockS3(t, 0)

	w, err := Create(context.Background(), "s3://bucket/run/db.fasta",
		config.S3Config{})
	require.NoError(t, err)
	tmp := w.(*s3Writer).tmp.Name()

	_, err = io.WriteString(w, ">a OX=662\nMK")
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	assert.Equal(t, 0, m.puts)
	assert.Empty(t, m.objects)
	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err), "temporary file is removed")
}

func TestCreateStdoutAbort(t *testing.T) {
	w, err := Create(context.Background(), Stdout, config.S3Config{})
	require.NoError(t, err)
	assert.NoError(t, w.Abort())
}

func TestCreateS3Errors(t *testing.T) {
	withMockS3(t, http.StatusForbidden)

	_, err := Create(context.Background(), "s3://bucket", config.S3Config{})
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.PublishError))

	w, err := Create(context.Background(), "s3://bucket/db.fasta",
		config.S3Config{})
	require.NoError(t, err)
	_, err = io.WriteString(w, ">a\n")
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.True(t, taxonomy.HasCode(err, errcode.PublishError))
}
