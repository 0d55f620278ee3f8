package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesAndShutsDownInOrder(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	srv := NewServer(handler, Options{ShutdownTimeout: time.Second}, zerolog.Nop())

	var order []string
	srv.OnShutdown("first", func(context.Context) error { order = append(order, "first"); return nil })
	srv.OnShutdown("second", func(context.Context) error { order = append(order, "second"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestServer_ShutdownHookErrorIsReported(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(http.NotFoundHandler(), Options{}, zerolog.Nop())
	boom := errors.New("boom")
	srv.OnShutdown("db", func(context.Context) error { return boom })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	assert.ErrorIs(t, err, boom)
}

func TestServer_CloseReleasesHooksWithoutServing(t *testing.T) {
	srv := NewServer(nil, Options{}, zerolog.Nop())

	var order []string
	srv.OnShutdown("mongodb", func(context.Context) error { order = append(order, "mongodb"); return nil })
	srv.OnShutdown("redis", func(context.Context) error { order = append(order, "redis"); return nil })

	require.NoError(t, srv.Close())
	assert.Equal(t, []string{"redis", "mongodb"}, order)

	require.NoError(t, srv.Close())
	assert.Len(t, order, 2, "hooks run once")
}

func TestServer_CloseAfterShutdownIsNoop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(http.NotFoundHandler(), Options{}, zerolog.Nop())
	calls := 0
	srv.OnShutdown("db", func(context.Context) error { calls++; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Serve(ctx, ln))
	require.NoError(t, srv.Close())
	assert.Equal(t, 1, calls)
}
