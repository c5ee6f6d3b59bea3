package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/tabdex/config"
	"github.com/jsphweid/tabdex/gptest"
	"github.com/jsphweid/tabdex/midi"
	"github.com/jsphweid/tabdex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func upload(t *testing.T, target string, data []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "song.gp7")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w.Result()
}

func testServer() *Server {
	c := config.Default()
	c.Server.RateLimit = 0
	return NewServer(c)
}

func errorBody(t *testing.T, resp *http.Response) model.ErrorResponse {
	var res model.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealth(t *testing.T) {
	resp := serve(testServer(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert := assert.New(t)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var health model.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.True(health.Ok)
	assert.Equal("tabdex", health.Service)
	assert.Contains(health.Formats, ".gp5")
}

func TestParse(t *testing.T) {
	data := gptest.GP7([]byte(gptest.ScoreGPIF))
	resp := serve(testServer(), upload(t, "/parse", data))

	assert := assert.New(t)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal("application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(resp.Header.Get("X-Request-Id"))
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal("Night Drive", doc["title"])
	assert.Equal(float64(960), doc["ticks_per_beat"])

	resp = serve(testServer(), upload(t, "/parse?case=camel", data))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(doc, "ticksPerBeat")

	resp = serve(testServer(), upload(t, "/parse?format=yaml", data))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	doc = nil
	require.NoError(t, yaml.Unmarshal(body, &doc))
	assert.Equal("Night Drive", doc["title"])
}

func TestMidiEndpoint(t *testing.T) {
	resp := serve(testServer(), upload(t, "/midi", gptest.GP7([]byte(gptest.ScoreGPIF))))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/midi", resp.Header.Get("Content-Type"))
	s, err := midi.Read(resp.Body)
	require.NoError(t, err)
	sum := midi.Summarize(s)
	require.Len(t, sum.Tracks, 1)
	assert.Equal(t, "Lead", sum.Tracks[0].Name)
}

func TestRejectsOversizedUploads(t *testing.T) {
	s := testServer()
	s.cfg.Server.MaxUploadBytes = 1024

	resp := serve(s, upload(t, "/parse", bytes.Repeat([]byte{'x'}, 2048)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "too large", errorBody(t, resp).Kind)

	resp = serve(s, upload(t, "/parse", bytes.Repeat([]byte{'x'}, 200<<10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestBadUploads(t *testing.T) {
	assert := assert.New(t)

	resp := serve(testServer(), upload(t, "/parse", []byte("this is not a guitar pro file at all")))
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	res := errorBody(t, resp)
	assert.Equal("malformed", res.Kind)
	assert.NotEmpty(res.Error)

	req := httptest.NewRequest(http.MethodPost, "/parse", bytes.NewReader([]byte("no form")))
	resp = serve(testServer(), req)
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	c := config.Default()
	c.Server.RateLimit = 0.001
	c.Server.Burst = 1
	s := NewServer(c)

	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/", nil)).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, serve(s, httptest.NewRequest(http.MethodGet, "/", nil)).StatusCode)
}
