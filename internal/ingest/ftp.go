package ingest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"
	"github.com/lox/bikeshare/internal/config"
	"github.com/lox/bikeshare/internal/models"
)

const defaultFTPUser = "anonymous"

// Fetcher downloads city CSV files from an FTP mirror.
type Fetcher struct {
	host       string
	user       string
	password   string
	remoteDir  string
	timeout    time.Duration
	maxElapsed time.Duration
}

func NewFetcher(host, user, password, remoteDir string) *Fetcher {
	if user == "" {
		user = defaultFTPUser
		if password == "" {
			password = defaultFTPUser
		}
	}
	return &Fetcher{
		host:       host,
		user:       user,
		password:   password,
		remoteDir:  remoteDir,
		timeout:    30 * time.Second,
		maxElapsed: 2 * time.Minute,
	}
}

// FetchAll downloads every configured city file into cfg.DataDir.
func (f *Fetcher) FetchAll(ctx context.Context, cfg config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, city := range models.Cities {
		file, ok := cfg.CityFiles[city]
		if !ok {
			continue
		}
		n, err := f.Fetch(ctx, file, filepath.Join(cfg.DataDir, file))
		if err != nil {
			return fmt.Errorf("fetch %s: %w", city.Slug(), err)
		}
		log.Printf("fetch: %s: %d bytes", file, n)
	}
	return nil
}

// Fetch retrieves one remote file and atomically replaces dst. Dial
// failures are retried with exponential backoff; login and missing files
// are not.
func (f *Fetcher) Fetch(ctx context.Context, name, dst string) (int64, error) {
	remote := path.Join(f.remoteDir, name)

	var written int64
	operation := func() error {
		conn, err := ftp.Dial(f.host, ftp.DialWithTimeout(f.timeout), ftp.DialWithContext(ctx))
		if err != nil {
			return fmt.Errorf("ftp dial: %w", err)
		}
		defer conn.Quit()

		if err := conn.Login(f.user, f.password); err != nil {
			return backoff.Permanent(fmt.Errorf("ftp login: %w", err))
		}

		resp, err := conn.Retr(remote)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("ftp retr %s: %w", remote, err))
		}
		defer resp.Close()

		n, err := writeAtomic(dst, resp)
		if err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		written = n
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return 0, err
	}
	return written, nil
}

func writeAtomic(dst string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".fetch-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	return n, os.Rename(tmp.Name(), dst)
}
