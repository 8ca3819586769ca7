package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var ErrNotImage = errors.New("not an image")

// Prober checks whether an image reference can be loaded.
type Prober interface {
	Probe(ctx context.Context, ref string) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, ref string) error

func (f ProberFunc) Probe(ctx context.Context, ref string) error {
	return f(ctx, ref)
}

// HTTPProber loads remote images with GET and accepts 2xx responses
// declaring an image content type. Data URIs are always loadable.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{client: client}
}

func (p *HTTPProber) Probe(ctx context.Context, ref string) error {
	if IsDataURI(ref) {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: status %d", ref, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%s: %w (%q)", ref, ErrNotImage, ct)
	}
	return nil
}
