package archive

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ice-extent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var testNow = time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC)

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	palette := color.Palette{color.White, color.RGBA{R: 30, G: 60, B: 200, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette)
	img.SetColorIndex(1, 1, 1)
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

// archiveServer serves GIFs for known paths and records every request path
type archiveServer struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
	files map[string][]byte
}

func newArchiveServer(t *testing.T, files map[string][]byte) *archiveServer {
	t.Helper()
	s := &archiveServer{files: files}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, r.URL.Path)
		s.mu.Unlock()

		data, ok := s.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(data)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *archiveServer) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func TestClient_URL(t *testing.T) {
	c := NewClient("", 0)

	assert.Equal(t,
		"http://www.natice.noaa.gov/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/2015/ims2015045.gif",
		c.URL(models.ImageRequest{Year: 2015, Day: 45}))
	assert.Equal(t,
		"http://www.natice.noaa.gov/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/2020/ims2020045.gif",
		c.URL(models.ImageRequest{Year: 2020, Day: 45}))
	assert.Equal(t,
		"http://mirror.example/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/2001/ims2001001.gif",
		NewClient("http://mirror.example/", 0).URL(models.ImageRequest{Year: 2001, Day: 1}))
}

func TestClient_FetchReturnsBody(t *testing.T) {
	frame := encodeGIF(t, 4, 4)
	srv := newArchiveServer(t, map[string][]byte{
		"/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/2015/ims2015045.gif": frame,
	})
	c := NewClient(srv.URL, time.Second, WithClock(func() time.Time { return testNow }))

	data, err := c.Fetch(context.Background(), models.ImageRequest{Year: 2015, Day: 45})
	require.NoError(t, err)
	assert.Equal(t, frame, data)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestClient_FetchDoesNotCache(t *testing.T) {
	path := "/pub/ims/ims_v3/ims_gif/ARCHIVE/NHem/2010/ims2010100.gif"
	srv := newArchiveServer(t, map[string][]byte{path: encodeGIF(t, 2, 2)})
	c := NewClient(srv.URL, time.Second, WithClock(func() time.Time { return testNow }))

	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), models.ImageRequest{Year: 2010, Day: 100})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{path, path, path}, srv.requested())
}

func TestClient_FetchNon200(t *testing.T) {
	srv := newArchiveServer(t, nil)
	c := NewClient(srv.URL, time.Second, WithClock(func() time.Time { return testNow }))

	_, err := c.Fetch(context.Background(), models.ImageRequest{Year: 2021, Day: 200})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.URL, "/NHem/2021/ims2021200.gif")
	assert.True(t, IsNotFound(err))
}

func TestClient_FetchRejectsInvalidRequestWithoutTraffic(t *testing.T) {
	srv := newArchiveServer(t, nil)
	c := NewClient(srv.URL, time.Second, WithClock(func() time.Time { return testNow }))

	for _, req := range []models.ImageRequest{
		{Year: 1999, Day: 10},
		{Year: 2023, Day: 10},
		{Year: 2010, Day: 0},
		{Year: 2010, Day: 366},
	} {
		_, err := c.Fetch(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrInvalidRequest, req.String())
	}
	assert.Empty(t, srv.requested())
}

func TestClient_FetchHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 0, WithClock(func() time.Time { return testNow }))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Fetch(ctx, models.ImageRequest{Year: 2015, Day: 45})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_FetchRecordsSpan(t *testing.T) {
	srv := newArchiveServer(t, nil)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	c := NewClient(srv.URL, time.Second,
		WithClock(func() time.Time { return testNow }),
		WithTracer(provider.Tracer("test")),
	)
	_, err := c.Fetch(context.Background(), models.ImageRequest{Year: 2019, Day: 12})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "archive.fetch", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("archive.year", 2019))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("archive.day", 12))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.status_code", http.StatusNotFound))
}

func TestDecode_RejectsNonImage(t *testing.T) {
	_, err := Decode([]byte("<html>maintenance</html>"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Decode([]byte("GIF89a truncated"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrNotImage)
}
