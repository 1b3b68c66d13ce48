package intake

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(`{"app-first":"Jane","emp-income":85000,"app-bankruptcy":null}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	fields, err := DecodeRequest(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app-first": "Jane", "emp-income": 85000.0, "app-bankruptcy": nil}, fields)
}

func TestDecodeRequestRejectsNonObjectJSON(t *testing.T) {
	for _, body := range []string{`[1,2]`, `null`, `{bad`} {
		req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		_, err := DecodeRequest(req)
		assert.True(t, errors.Is(err, domain.ErrValidation), body)
	}
}

func TestDecodeRequestURLEncoded(t *testing.T) {
	form := url.Values{}
	form.Add("app-first", "first")
	form.Add("app-first", "Jane")
	form.Add("co-last", "Doe")
	req := httptest.NewRequest(http.MethodPost, "/applications?app-last=ignored", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fields, err := DecodeRequest(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app-first": "Jane", "co-last": "Doe"}, fields)
}

func TestDecodeRequestMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("app-first", "Jane"))
	fw, err := mw.CreateFormFile("sign-file", "signature.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/applications", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	fields, err := DecodeRequest(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app-first": "Jane", "sign-file": "signature.png"}, fields)
}

func TestDecodeRequestUnsupported(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader("app-first=Jane"))
	req.Header.Set("Content-Type", "text/plain")
	_, err := DecodeRequest(req)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)

	req = httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader("{}"))
	_, err = DecodeRequest(req)
	assert.ErrorIs(t, err, domain.ErrUnsupportedMedia)
}

func TestDecodeRequestJSONTooLarge(t *testing.T) {
	body := `{"app-first":"` + strings.Repeat("a", MaxJSONBody) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/applications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	_, err := DecodeRequest(req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
