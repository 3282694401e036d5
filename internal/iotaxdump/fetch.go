package iotaxdump

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnsys"
)

const (
	// NamesFile is the names dump inside taxdump.tar.gz.
	NamesFile = "names.dmp"
	// NodesFile is the nodes dump inside taxdump.tar.gz.
	NodesFile = "nodes.dmp"

	archiveFile = "taxdump.tar.gz"
)

// httpClient performs downloads; tests may replace it.
var httpClient = &http.Client{Timeout: 30 * time.Minute}

// Paths returns locations of names.dmp and nodes.dmp inside dir.
func Paths(dir string) (namesPath, nodesPath string) {
	return filepath.Join(dir, NamesFile), filepath.Join(dir, NodesFile)
}

// Fetch makes sure names.dmp and nodes.dmp exist and are not empty in dir.
// Empty files are removed. If a file is missing, taxdump.tar.gz is
// downloaded from url, both dumps are extracted and the archive is deleted.
func Fetch(
	ctx context.Context,
	url, dir string,
) (namesPath, nodesPath string, err error) {
	namesPath, nodesPath = Paths(dir)
	if usable(namesPath) && usable(nodesPath) {
		slog.Info("Using existing taxonomy dump", "dir", dir)
		return namesPath, nodesPath, nil
	}

	if err = gnsys.MakeDir(dir); err != nil {
		return "", "", DownloadError(url, err)
	}

	gn.Info("Downloading <em>%s</em>", url)
	archive := filepath.Join(dir, archiveFile)
	if err = download(ctx, url, archive); err != nil {
		return "", "", DownloadError(url, err)
	}
	defer os.Remove(archive)

	if err = extract(archive, dir, NamesFile, NodesFile); err != nil {
		return "", "", DownloadError(url, err)
	}
	slog.Info("Taxonomy dump is extracted", "dir", dir)

	return namesPath, nodesPath, nil
}

// usable reports whether path is a non-empty regular file. Empty files
// are deleted so that they are downloaded again.
func usable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if info.Size() == 0 {
		slog.Warn("Removing empty taxonomy dump", "path", path)
		_ = os.Remove(path)
		return false
	}
	return true
}

func download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bar := newProgressBar(resp.ContentLength, "taxdump.tar.gz: ")
	defer bar.Finish()

	if _, err = io.Copy(f, bar.NewProxyReader(resp.Body)); err != nil {
		return err
	}
	return f.Close()
}

// extract copies the named members of a .tar.gz archive into dir. Members
// are staged as temporary files and renamed only when all of them are
// copied, so a damaged archive leaves no partial dump behind.
func extract(archive, dir string, members ...string) (err error) {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	want := make(map[string]struct{}, len(members))
	for _, m := range members {
		want[m] = struct{}{}
	}

	var staged []string
	defer func() {
		if err == nil {
			return
		}
		for _, name := range staged {
			_ = os.Remove(filepath.Join(dir, name) + ".tmp")
		}
	}()

	tr := tar.NewReader(gz)
	for len(want) > 0 {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		name := filepath.Base(hdr.Name)
		if _, ok := want[name]; !ok || hdr.Typeflag != tar.TypeReg {
			continue
		}
		staged = append(staged, name)
		err = writeMember(tr, filepath.Join(dir, name)+".tmp", hdr.Size)
		if err != nil {
			return err
		}
		delete(want, name)
	}

	if len(want) > 0 {
		return fmt.Errorf("archive %s misses %d dump file(s)", archive, len(want))
	}

	for _, name := range staged {
		path := filepath.Join(dir, name)
		if err = os.Rename(path+".tmp", path); err != nil {
			return err
		}
	}
	return nil
}

func writeMember(r io.Reader, path string, size int64) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, r)
	if err != nil {
		out.Close()
		return err
	}
	if n != size {
		out.Close()
		return fmt.Errorf("%s: copied %d of %d bytes", path, n, size)
	}
	return out.Close()
}
