package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Serve sends one request through handler and returns the recorded response.
// A string body is sent raw; anything else is JSON encoded.
func Serve(handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// DecodeBody parses the response body as a JSON object
func DecodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// ErrorCode returns error.code from an error envelope
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	errInfo, ok := DecodeBody(t, w)["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errInfo["code"].(string)
	return code
}

// AssertError checks status and error code of an error envelope
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	assert.Equal(t, code, ErrorCode(t, w))
}

// HTTPCase is one row of a request table
type HTTPCase struct {
	Name   string
	Method string
	Path   string
	Body   any

	WantStatus int
	// WantCode is the error code expected in the envelope, empty for success
	WantCode string
	Check    func(t *testing.T, w *httptest.ResponseRecorder)
}

// RunHTTPCases runs every case as a subtest against handler
func RunHTTPCases(t *testing.T, handler http.Handler, cases []HTTPCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			w := Serve(handler, tc.Method, tc.Path, tc.Body)
			if tc.WantCode != "" {
				AssertError(t, w, tc.WantStatus, tc.WantCode)
			} else {
				assert.Equal(t, tc.WantStatus, w.Code, "body: %s", w.Body.String())
			}
			if tc.Check != nil {
				tc.Check(t, w)
			}
		})
	}
}
