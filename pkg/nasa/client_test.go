package nasa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
	"github.com/cosmoscope/cosmoscope/pkg/config"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*config.UpstreamConfig)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.UpstreamConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second}
	for _, m := range mutate {
		m(&cfg)
	}
	return New(cfg, WithLogger(quietLogger())), srv
}

func slowHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(2 * time.Second):
		w.Write([]byte(`{}`))
	}
}

func shortTimeout(cfg *config.UpstreamConfig) { cfg.Timeout = 50 * time.Millisecond }

func TestAPODInjectsKeyAndDate(t *testing.T) {
	var gotPath, gotKey, gotDate string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(`{"date":"2025-08-14","title":"X","media_type":"image"}`))
	})

	apod, err := c.APOD(context.Background(), "2025-08-14")
	require.NoError(t, err)
	assert.Equal(t, "/planetary/apod", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2025-08-14", gotDate)
	assert.Equal(t, "X", apod.Title)
	assert.False(t, apod.Fallback)
}

func TestAPODFallbackOnTimeout(t *testing.T) {
	c, _ := newTestClient(t, slowHandler, shortTimeout)

	apod, err := c.APOD(context.Background(), "2025-08-14")
	require.NoError(t, err)
	assert.True(t, apod.Fallback)
	assert.Equal(t, "image", apod.MediaType)
	assert.Equal(t, "2025-08-14", apod.Date)

	st, err := c.CacheStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.Total, "fallback entries are never cached")
}

func TestAPODFallbackOnConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	now := time.Date(2025, 8, 14, 23, 0, 0, 0, time.UTC)
	c := New(config.UpstreamConfig{BaseURL: url, Timeout: time.Second},
		WithLogger(quietLogger()), WithClock(func() time.Time { return now }))

	apod, err := c.APOD(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, apod.Fallback)
	assert.Equal(t, "2025-08-14", apod.Date)
}

func TestAPODNoFallbackOnHTTPError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.APOD(context.Background(), "2025-08-14")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBadGateway))
}

func TestMarsPhotosTimeoutPropagates(t *testing.T) {
	c, _ := newTestClient(t, slowHandler, shortTimeout)
	sol := 1000

	_, err := c.MarsPhotos(context.Background(), models.MarsPhotoQuery{Rover: "curiosity", Sol: &sol})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindTimeout))
	assert.Equal(t, http.StatusRequestTimeout, apperr.StatusOf(err))
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status  int
		kind    apperr.Kind
		code    int
		message string
	}{
		{http.StatusTooManyRequests, apperr.KindRateLimited, 429, "upstream rate limit exceeded"},
		{http.StatusForbidden, apperr.KindUnauthorized, 403, "upstream unauthorized: check NASA_API_KEY"},
		{http.StatusUnauthorized, apperr.KindUnauthorized, 403, "upstream unauthorized: check NASA_API_KEY"},
		{http.StatusNotFound, apperr.KindNotFound, 404, "upstream resource not found"},
		{http.StatusServiceUnavailable, apperr.KindBadGateway, 502, "upstream bad gateway"},
		{http.StatusTeapot, apperr.KindInternal, 500, "upstream request failed"},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := c.NEOLookup(context.Background(), "3542519")
			require.Error(t, err)

			ae := apperr.From(err)
			assert.Equal(t, tc.kind, ae.Kind)
			assert.Equal(t, tc.code, ae.StatusCode)
			assert.Equal(t, tc.message, ae.Message)
			assert.True(t, ae.Operational)
		})
	}
}

func TestMalformedBodyIsBadGateway(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"photos": [{"id": 1}]}`))
	})
	sol := 1

	_, err := c.MarsPhotos(context.Background(), models.MarsPhotoQuery{Rover: "curiosity", Sol: &sol})
	require.Error(t, err)
	ae := apperr.From(err)
	assert.Equal(t, apperr.KindBadGateway, ae.Kind)
	assert.Equal(t, "upstream returned malformed response", ae.Message)
}

func TestClientCachesSuccessfulBodies(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"photo_manifest":{"name":"Curiosity","max_sol":4000,"total_photos":10}}`))
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := c.RoverManifest(ctx, "Curiosity")
		require.NoError(t, err)
		assert.Equal(t, "Curiosity", m.Name)
	}
	assert.EqualValues(t, 1, calls.Load())

	st, err := c.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "upstream", st.Backend)
	assert.EqualValues(t, 1, st.Active)

	removed, err := c.ClearCache(ctx, "manifests")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestClientCollapsesConcurrentMisses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`{"element_count":0,"near_earth_objects":{}}`))
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.NEOFeed(ctx, "2025-08-10", "2025-08-12")
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestAPODRandomBypassesCache(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		w.Write([]byte(`[{"date":"2001-01-01","title":"A"},{"date":"2002-02-02","title":"B"}]`))
	})

	for i := 0; i < 2; i++ {
		list, err := c.APODRandom(context.Background(), 2)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestEPICPaths(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/EPIC/api/natural/all" {
			w.Write([]byte(`[{"date":"2025-08-13"}]`))
			return
		}
		w.Write([]byte(`[{"identifier":"20250813003633","image":"epic_1b_20250813003633","date":"2025-08-13 00:31:45"}]`))
	})
	ctx := context.Background()

	imgs, err := c.EPICImages(ctx, "natural", "2025-08-13")
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	dates, err := c.EPICDates(ctx, "natural")
	require.NoError(t, err)
	require.Len(t, dates, 1)
	_, err = c.EPICImages(ctx, "enhanced", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"/EPIC/api/natural/date/2025-08-13", "/EPIC/api/natural/all", "/EPIC/api/enhanced"}, paths)
}

func TestThrottleHonoursContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":{"size":1},"near_earth_objects":[]}`))
	}, func(cfg *config.UpstreamConfig) {
		cfg.MaxRPS = 0.001
		cfg.Burst = 1
	})

	_, err := c.NEOBrowse(context.Background(), 0, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.NEOBrowse(ctx, 1, 1)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindTimeout))
}

func TestRedactRemovesKey(t *testing.T) {
	msg := redact(assert.AnError, "")
	assert.Equal(t, assert.AnError.Error(), msg)

	err := errors.New("Get https://api.nasa.gov/planetary/apod?api_key=secret: timeout")
	assert.NotContains(t, redact(err, "secret"), "secret")
}

func TestTransportErrorsOmitKey(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	c := New(config.UpstreamConfig{BaseURL: base, APIKey: "SECRET-KEY-123", Timeout: time.Second}, WithLogger(quietLogger()))
	_, err := c.NEOLookup(context.Background(), "3542519")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-KEY-123")
	assert.Contains(t, err.Error(), "/neo/rest/v1/neo/3542519")

	var ue *url.Error
	require.True(t, errors.As(err, &ue))
	assert.True(t, isConnectionError(err))
}

func TestSharedFetchSurvivesCallerCancel(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
			return
		case <-time.After(300 * time.Millisecond):
		}
		w.Write([]byte(`{"id":"3542519","name":"(2010 PK9)","close_approach_data":[]}`))
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.NEOLookup(ctxA, "3542519")
		errA <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	errB := make(chan error, 1)
	go func() {
		_, err := c.NEOLookup(context.Background(), "3542519")
		errB <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()

	select {
	case err := <-errA:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}
	require.NoError(t, <-errB)
	assert.EqualValues(t, 1, calls.Load())

	// The shared result was cached even though its first caller left.
	_, err := c.NEOLookup(context.Background(), "3542519")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}
