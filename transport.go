package lumin

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"golang.org/x/xerrors"
)

// Transport delivers one serialized event payload to the collection
// endpoint. Fire-and-forget: implementations do not retry, queue or buffer.
type Transport interface {
	Send(ctx context.Context, url string, body []byte) ([]byte, error)
}

// HTTPTransport posts JSON payloads over a plain http.Client.
type HTTPTransport struct {
	client *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport wraps client, or http.DefaultClient when nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, xerrors.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := t.client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("post event: %w", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, xerrors.Errorf("read response: %w", err)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, xerrors.Errorf("collection endpoint returned %d: %s", res.StatusCode, data)
	}
	return data, nil
}
