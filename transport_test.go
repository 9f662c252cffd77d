package lumin_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lumin "github.com/uselumin/lumin-go"
	"github.com/uselumin/lumin-go/testutil"
)

func TestHTTPTransport(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"hello":"world"}`, string(body))
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		t.Cleanup(server.Close)

		transport := lumin.NewHTTPTransport(nil)
		res, err := transport.Send(ctx, server.URL, []byte(`{"hello":"world"}`))
		require.NoError(t, err)
		require.JSONEq(t, `{"ok":true}`, string(res))
	})

	t.Run("Non2xx", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		t.Cleanup(server.Close)

		transport := lumin.NewHTTPTransport(server.Client())
		_, err := transport.Send(ctx, server.URL, []byte(`{}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "403")
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		t.Parallel()
		ctx := testutil.Context(t, testutil.WaitShort)
		transport := lumin.NewHTTPTransport(nil)
		_, err := transport.Send(ctx, "http://127.0.0.1:0", []byte(`{}`))
		require.Error(t, err)
	})
}
