package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/biblianet/werset/core/biblia"
	"github.com/biblianet/werset/core/fetch"
	"github.com/biblianet/werset/internal/cache"
	"github.com/biblianet/werset/internal/logging"
)

const passageHTML = `<html><body>
<div class="verse-text"><span class="verse-number">16</span> Tak bowiem B&oacute;g umi&#322;owa&#322; &#347;wiat</div>
</body></html>`

// newTestServer backs an API server with a fake content provider.
func newTestServer(t *testing.T, provider http.HandlerFunc) *Server {
	t.Helper()
	src := httptest.NewServer(provider)
	t.Cleanup(src.Close)

	client := fetch.NewClient(time.Second, fetch.RetryPolicy{
		Attempts: 3,
		Backoff:  func(int) time.Duration { return time.Millisecond },
	})
	engine := biblia.New(biblia.ConfigFor(src.URL+"/api"), nil, client, cache.New[string, any](time.Minute))
	return NewServer(Config{ListenAddr: ":0"}, engine)
}

func doRequest(t *testing.T, s *Server, path string) (*http.Response, APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return rec.Result(), body
}

func TestPassageEndpoint(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(passageHTML))
	})

	res, body := doRequest(t, s, "/api/v1/passage?translation=bw&ref=J+3:16")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !body.Success {
		t.Fatalf("success = false: %+v", body.Error)
	}

	data, _ := json.Marshal(body.Data)
	if !strings.Contains(string(data), "16. ") {
		t.Errorf("passage text missing: %s", data)
	}
}

func TestPassageMissingParams(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, body := doRequest(t, s, "/api/v1/passage?translation=bw")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "MISSING_PARAMETER" {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestPassageUnknownTranslationIsActionable(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, body := doRequest(t, s, "/api/v1/passage?translation=xyz&ref=J+3:16")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body.Error.Code != "UNKNOWN_TRANSLATION" {
		t.Errorf("code = %q", body.Error.Code)
	}
	// The message names the supported codes so the caller can fix it.
	if !strings.Contains(body.Error.Message, "bw") || !strings.Contains(body.Error.Message, "ubg") {
		t.Errorf("message not actionable: %q", body.Error.Message)
	}
}

func TestPassageBadCitation(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, body := doRequest(t, s, "/api/v1/passage?translation=bw&ref=nonsense")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body.Error.Code != "INVALID_CITATION" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestPassageNoResultsStaysGeneric(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// The page carries only boilerplate, which normalizes to nothing.
		w.Write([]byte("<html><body>© wszelkie prawa zastrzeżone</body></html>"))
	})

	res, body := doRequest(t, s, "/api/v1/passage?translation=bw&ref=Rdz+99:99")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
	// Provider internals never leak to API clients.
	if strings.Contains(body.Error.Message, "wszelkie") {
		t.Errorf("provider body leaked: %q", body.Error.Message)
	}
}

// captureLog redirects the global logger to a buffer for the duration
// of f and returns everything it wrote.
func captureLog(t *testing.T, f func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	logging.InitLogger(logging.LevelDebug, logging.FormatJSON)

	outCh := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		outCh <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout
	logging.InitLogger(logging.LevelInfo, logging.FormatJSON)
	return <-outCh
}

func TestNoResultsDiagnosticsReachLog(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [], "uwaga": "strona-przeniesiona-pod-nowy-adres"}`))
	})

	var res *http.Response
	var body APIResponse
	out := captureLog(t, func() {
		res, body = doRequest(t, s, "/api/v1/search?translation=bw&q=fraza")
	})

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
	// The user-facing message stays generic.
	if strings.Contains(body.Error.Message, "przeniesiona") {
		t.Errorf("provider body leaked to the client: %q", body.Error.Message)
	}
	// The operator log carries the status and the body sample.
	if !strings.Contains(out, "no_results") {
		t.Errorf("no_results event missing from log:\n%s", out)
	}
	if !strings.Contains(out, "strona-przeniesiona-pod-nowy-adres") {
		t.Errorf("body sample missing from log:\n%s", out)
	}
}

func TestPassageProviderDown(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, body := doRequest(t, s, "/api/v1/passage?translation=bw&ref=Rdz+1:1")
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body.Error.Code != "PROVIDER_UNAVAILABLE" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "results": [
			{"ref": "Rdz 1:1", "text": "Na początku stworzył Bóg niebo i ziemię."}
		]}`))
	})

	res, body := doRequest(t, s, "/api/v1/search?translation=bw&q=początku&page=1&limit=5")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", res.StatusCode, body.Error)
	}

	data, _ := json.Marshal(body.Data)
	if !strings.Contains(string(data), "Rdz 1:1") {
		t.Errorf("hit missing: %s", data)
	}
}

func TestOriginalEndpointAllPages(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 1, "results": [
			{"ref": "Rdz 1:1", "text": "בְּרֵאשִׁית בָּרָא אֱלֹהִים"}
		]}`))
	})

	res, body := doRequest(t, s, "/api/v1/original?q=ברא&page=all")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %+v", res.StatusCode, body.Error)
	}
	if !body.Success {
		t.Fatalf("success = false")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, _ := doRequest(t, s, "/healthz")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestTranslationsEndpoint(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, body := doRequest(t, s, "/api/v1/translations")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	data, _ := json.Marshal(body.Data)
	for _, code := range []string{"bw", "ubg", "eib"} {
		if !strings.Contains(string(data), code) {
			t.Errorf("translations missing %q: %s", code, data)
		}
	}
}

func TestUnknownEndpoint(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, body := doRequest(t, s, "/api/v2/nothing")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	res, _ := doRequest(t, s, "/healthz")
	if res.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestRateLimiting(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer src.Close()

	client := fetch.NewClient(time.Second, fetch.DefaultPolicy())
	engine := biblia.New(biblia.ConfigFor(src.URL+"/api"), nil, client, cache.New[string, any](time.Minute))
	s := NewServer(Config{RateLimitRequests: 60, RateLimitBurst: 2}, engine)
	h := s.Handler()

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
