package transports

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	tr := newTracers(t)
	srv := httptest.NewServer(NewHTTPHandler(newEndpoints(t, tr), cfg, tr.ot, tr.zipkin, log.NewNopLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/add", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHTTPAddJSON(t *testing.T) {
	srv := newTestServer(t, Config{})

	cases := []struct {
		name string
		body string
		want string
	}{
		{"integers", `{"num1": 1, "num2": 2}`, `{"result": 3}`},
		{"decimals", `{"num1": 2.5, "num2": 3.1}`, `{"result": 5.6}`},
		{"negative decimals", `{"num1": -8.9, "num2": -1.9}`, `{"result": -10.8}`},
		{"numeric strings", `{"num1": "0.0001", "num2": "0.0002"}`, `{"result": 0.0003}`},
		{"cancelling", `{"num1": -0.1, "num2": 0.1}`, `{"result": 0}`},
		{"non numeric", `{"num1": "a", "num2": 2}`, `{"result": "NaN"}`},
		{"non numeric second", `{"num1": 2, "num2": "b"}`, `{"result": "NaN"}`},
		{"opposite infinities", `{"num1": "Infinity", "num2": "-Infinity"}`, `{"result": "NaN"}`},
		{"overflow", `{"num1": 1.7976931348623157e308, "num2": 1.7976931348623157e308}`, `{"result": null}`},
		{"infinite operand", `{"num1": "Infinity", "num2": 1}`, `{"result": null}`},
		{"exact key wins", `{"NUM1": "", "num1": 1, "num2": 2}`, `{"result": 3}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, body := postJSON(t, srv, c.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
			assert.JSONEq(t, c.want, body)
		})
	}
}

func TestHTTPAddMissingInput(t *testing.T) {
	srv := newTestServer(t, Config{})

	for _, body := range []string{
		`{"num1": "", "num2": 5}`,
		`{"num2": 5}`,
		`{"num1": null, "num2": 5}`,
		`{"num1": 1, "num2": ""}`,
		`{"num1": 1}`,
		`{"NUM1": 1, "num2": 2}`,
		`{"Num1": 1, "Num2": 2}`,
		`{"num1": 1, "NUM2": 2}`,
		`{}`,
		``,
	} {
		t.Run(body, func(t *testing.T) {
			resp, raw := postJSON(t, srv, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

			var w errorWrapper
			require.NoError(t, json.Unmarshal([]byte(raw), &w))
			assert.NotEmpty(t, w.Error)
		})
	}
}

func TestHTTPAddMalformedJSON(t *testing.T) {
	srv := newTestServer(t, Config{})

	for _, body := range []string{`{"num1": 1,`, `[1, 2]`} {
		resp, raw := postJSON(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, raw, "malformed request")
	}
}

func TestHTTPAddForm(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp, err := http.PostForm(srv.URL+"/add", url.Values{"num1": {"1.5"}, "num2": {"2"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := ioutil.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"result": 3.5}`, string(b))

	resp, err = http.PostForm(srv.URL+"/add", url.Values{"num1": {""}, "num2": {"2"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.PostForm(srv.URL+"/add", url.Values{"num1": {"2"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPAddIsIdempotent(t *testing.T) {
	srv := newTestServer(t, Config{})

	_, first := postJSON(t, srv, `{"num1": "2.5", "num2": 3.1}`)
	for i := 0; i < 5; i++ {
		_, body := postJSON(t, srv, `{"num1": "2.5", "num2": 3.1}`)
		assert.Equal(t, first, body)
	}
}

func TestHTTPStatus(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "live", body.Status)
	ts, err := time.Parse(time.RFC3339, body.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestHTTPIndex(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := ioutil.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(b), `name="num1"`)
	assert.Contains(t, string(b), `name="num2"`)
	assert.Contains(t, string(b), `action="add"`)
}

func TestHTTPPublicFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0644))
	srv := newTestServer(t, Config{PublicDir: dir})

	resp, err := http.Get(srv.URL + "/public/hello.txt")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := ioutil.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(b))

	resp, err = http.Get(srv.URL + "/public/missing.txt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPAPIKey(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "s3cret", ExemptPaths: []string{"/"}})

	do := func(method, path, key string) int {
		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(`{"num1": 1, "num2": 2}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/add", ""))
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/add", "wrong"))
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/add", "s3cret"))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/status", ""))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/", ""))
}

func TestHTTPClient(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "s3cret"})
	tr := newTracers(t)

	client, err := NewHTTPClient(srv.URL, "s3cret", tr.ot, tr.zipkin, log.NewNopLogger())
	require.NoError(t, err)
	ctx := context.Background()

	rs, err := client.Add(ctx, service.Number(1), service.Number(2))
	require.NoError(t, err)
	assert.Equal(t, 3.0, rs)

	rs, err = client.Add(ctx, service.String("a"), service.Number(2))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rs))

	rs, err = client.Add(ctx, service.Number(math.MaxFloat64), service.Number(math.MaxFloat64))
	require.NoError(t, err)
	assert.True(t, math.IsInf(rs, 1))

	_, err = client.Add(ctx, service.Absent(), service.Number(2))
	assert.ErrorIs(t, err, service.ErrMissingInput)
	assert.EqualError(t, err, "missing required input: num1")

	status, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "live", status)
}

func TestHTTPClientUnauthorized(t *testing.T) {
	srv := newTestServer(t, Config{APIKey: "s3cret"})
	tr := newTracers(t)

	client, err := NewHTTPClient(srv.URL, "", tr.ot, tr.zipkin, log.NewNopLogger())
	require.NoError(t, err)

	_, err = client.Add(context.Background(), service.Number(1), service.Number(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}
