package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with the payload left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total   int64 `json:"total"`
		Page    int   `json:"page"`
		PerPage int   `json:"per_page"`
	} `json:"meta"`
}

// DecodeEnvelope parses a response body. An empty body yields a zero Envelope.
func DecodeEnvelope(t *testing.T, body []byte) Envelope {
	t.Helper()
	var env Envelope
	if len(body) == 0 {
		return env
	}
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

// Data decodes the envelope payload into T
func Data[T any](t *testing.T, env Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

// JSONResponse parses the response body as a generic JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "Failed to parse JSON response")
	return result
}

// ToJSONReader converts a value to a JSON io.Reader
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}

// FilePart is one uploaded file of a multipart form
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Body        string
}

// MultipartForm encodes values and files the way the asset and kit forms
// are posted. It returns the body and its Content-Type.
func MultipartForm(t *testing.T, values url.Values, files ...FilePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, vs := range values {
		for _, v := range vs {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write([]byte(f.Body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
