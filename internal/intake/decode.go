package intake

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
)

const (
	maxMultipartMemory = 32 << 20
	// MaxJSONBody caps a JSON submission.
	MaxJSONBody = 1 << 20
	// MaxBody caps any submission, uploads included.
	MaxBody = maxMultipartMemory + 1<<20
)

// DecodeRequest reads a JSON, urlencoded or multipart submission into a flat
// key/value map. Any other content type fails with domain.ErrUnsupportedMedia.
func DecodeRequest(r *http.Request) (map[string]any, error) {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(contentType, "application/json"):
		return DecodeJSON(http.MaxBytesReader(nil, r.Body, MaxJSONBody))
	case strings.Contains(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("%w: invalid multipart body: %v", domain.ErrValidation, err)
		}
		return DecodeForm(r.MultipartForm.Value, r.MultipartForm.File), nil
	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: invalid form body: %v", domain.ErrValidation, err)
		}
		return DecodeForm(r.PostForm, nil), nil
	default:
		return nil, domain.ErrUnsupportedMedia
	}
}

// DecodeJSON reads a JSON object. Values keep their JSON types.
func DecodeJSON(body io.Reader) (map[string]any, error) {
	var fields map[string]any
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: JSON body must be an object", domain.ErrValidation)
	}
	return fields, nil
}

// DecodeForm flattens form values, keeping the last value of repeated keys.
// Uploaded files are recorded by file name only; parts without a name are
// skipped.
func DecodeForm(values url.Values, files map[string][]*multipart.FileHeader) map[string]any {
	fields := make(map[string]any, len(values)+len(files))
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		fields[key] = vs[len(vs)-1]
	}
	for key, headers := range files {
		for _, h := range headers {
			if h != nil && h.Filename != "" {
				fields[key] = h.Filename
			}
		}
	}
	return fields
}
