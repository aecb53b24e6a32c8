package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bianoble/hyperkit-recipe/internal/cache"
)

// Limits applied by NewArchiveFetcher. A hyperkit source archive is a few
// megabytes.
const (
	DefaultMaxArchiveSize = 256 << 20
	DefaultArchiveTimeout = 5 * time.Minute
)

// ArchiveFetcher downloads release archives and verifies their checksum.
type ArchiveFetcher struct {
	Client  HTTPClient
	Cache   *cache.Cache  // optional
	MaxSize int64         // max archive size in bytes (0 = no limit)
	Timeout time.Duration // download timeout (0 = no extra timeout beyond context)
}

// NewArchiveFetcher returns a fetcher backed by c with the default size and
// time limits.
func NewArchiveFetcher(c *cache.Cache) *ArchiveFetcher {
	return &ArchiveFetcher{Cache: c, MaxSize: DefaultMaxArchiveSize, Timeout: DefaultArchiveTimeout}
}

// Fetch returns the archive at url whose sha256 must equal digest. A cached
// copy is used when available; fresh downloads are cached after verification.
// The second return value reports a cache hit.
func (a *ArchiveFetcher) Fetch(ctx context.Context, url, digest string) ([]byte, bool, error) {
	digest = strings.ToLower(digest)

	if a.Cache != nil {
		data, ok, err := a.Cache.Get(digest)
		if err != nil {
			return nil, false, &FetchError{Source: url, Operation: "cache lookup", Err: err}
		}
		if ok {
			return data, true, nil
		}
	}

	content, err := a.download(ctx, url)
	if err != nil {
		return nil, false, err
	}

	if actual := cache.Digest(content); actual != digest {
		return nil, false, &FetchError{
			Source:    url,
			Operation: "verify",
			Err:       fmt.Errorf("checksum mismatch: expected %s, got %s", digest, actual),
			Hint:      "the upstream archive has changed, update stable.sha256 in the recipe",
		}
	}

	if a.Cache != nil {
		if err := a.Cache.Put(digest, content); err != nil {
			return nil, false, &FetchError{Source: url, Operation: "cache store", Err: err}
		}
	}
	return content, false, nil
}

func (a *ArchiveFetcher) download(ctx context.Context, url string) ([]byte, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	client := a.Client
	if client == nil {
		client = DefaultHTTPClient{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: url, Operation: "download", Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: url, Operation: "download", Err: err, Hint: "check network connectivity and the stable.url"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Source:    url,
			Operation: "download",
			Err:       fmt.Errorf("HTTP %d", resp.StatusCode),
			Hint:      "check that the release archive still exists",
		}
	}

	if a.MaxSize > 0 && resp.ContentLength > a.MaxSize {
		return nil, &FetchError{Source: url, Operation: "download", Err: fmt.Errorf("archive exceeds max size %d bytes", a.MaxSize)}
	}

	var reader io.Reader = resp.Body
	if a.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, a.MaxSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{Source: url, Operation: "download", Err: fmt.Errorf("reading response: %w", err)}
	}
	if a.MaxSize > 0 && int64(len(content)) > a.MaxSize {
		return nil, &FetchError{Source: url, Operation: "download", Err: fmt.Errorf("archive exceeds max size %d bytes", a.MaxSize)}
	}
	return content, nil
}
