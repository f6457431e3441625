package productfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/utils"
)

// ErrMissing means the catalog file does not exist (or the remote answered
// with a non-200 status). Callers start from an empty catalog.
var ErrMissing = errors.New("products file missing")

// Loader reads products.json from disk or, when a URL is configured, over
// HTTP. Concurrent loads share a single read.
type Loader struct {
	filePath string
	url      string
	client   *http.Client
	group    singleflight.Group
}

// NewLoader creates a loader. url, when not empty, wins over filePath.
func NewLoader(filePath, url string, timeout time.Duration) *Loader {
	return &Loader{
		filePath: filePath,
		url:      url,
		client:   &http.Client{Timeout: timeout},
	}
}

// Source names where products are read from.
func (l *Loader) Source() string {
	if l.url != "" {
		return l.url
	}
	return l.filePath
}

// Load reads and decodes the catalog.
func (l *Loader) Load(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := l.group.Do("load", func() (any, error) {
		raw, err := l.read(ctx)
		if err != nil {
			return nil, err
		}
		products, err := domain.ParseProducts(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", l.Source(), err)
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.url != "" {
		return l.fetch(ctx)
	}

	data, err := os.ReadFile(l.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", l.filePath, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read products file: %w", err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s answered %d: %w", l.url, resp.StatusCode, ErrMissing)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read products response: %w", err)
	}
	return data, nil
}
