package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Multipart field names shared by the asset, kit and location forms
const (
	formImage            = "image"
	formFiles            = "files"
	formFileDescriptions = "file_descriptions"
	formTags             = "tags"
	formExistingFiles    = "existing_files"
	formSelectedFiles    = "selected_files"
	formRemoveFiles      = "remove_files"
	formCustomFieldsKey  = "custom_fields"
)

// formArray returns the values of a repeated form field, accepting both
// the bracketed ("tags[]") and bare ("tags") spelling. The second result
// reports whether the field was sent at all.
func formArray(c *gin.Context, name string) ([]string, bool) {
	if values, ok := c.GetPostFormArray(name + "[]"); ok {
		return compact(values), true
	}
	if values, ok := c.GetPostFormArray(name); ok {
		return compact(values), true
	}
	return nil, false
}

// compact drops blank entries; an empty "tags[]" clears the list
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseUUIDs(name string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%s contains an invalid id %q", name, r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formUUIDs parses a repeated UUID field. A nil slice means the field was
// not sent; a sent but empty field yields an empty non-nil slice.
func formUUIDs(c *gin.Context, name string) (*[]uuid.UUID, error) {
	raw, ok := formArray(c, name)
	if !ok {
		return nil, nil
	}
	ids, err := parseUUIDs(name, raw)
	if err != nil {
		return nil, err
	}
	return &ids, nil
}

// formUUID parses an optional single UUID field; blank means none
func formUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a UUID", name)
	}
	return &id, nil
}

// formDecimal parses an optional decimal field; blank means none
func formDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &d, nil
}

// formCustomFields reads custom_fields[<field id>]=value pairs
func formCustomFields(c *gin.Context) (map[uuid.UUID]string, error) {
	raw := c.PostFormMap(formCustomFieldsKey)
	if len(raw) == 0 {
		return nil, nil
	}
	values := make(map[uuid.UUID]string, len(raw))
	for key, value := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("custom_fields key %q is not a field id", key)
		}
		values[id] = value
	}
	return values, nil
}

// uploads keeps the opened multipart parts of one request so they can be
// closed after the service call
type uploads struct {
	open []multipart.File
}

func (u *uploads) Close() {
	for _, f := range u.open {
		_ = f.Close()
	}
	u.open = nil
}

func (u *uploads) fromHeader(fh *multipart.FileHeader, description string) (attachment.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return attachment.Upload{}, fmt.Errorf("cannot read upload %q", fh.Filename)
	}
	u.open = append(u.open, f)
	contentType := fh.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		// unknown to the client; the file extension decides
		contentType = ""
	}
	return attachment.Upload{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Description: description,
		Body:        io.Reader(f),
	}, nil
}

// image returns the single file sent under name, or nil when absent
func (u *uploads) image(c *gin.Context, name string) (*attachment.Upload, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	up, err := u.fromHeader(fh, "")
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// files returns the files sent under files[] with their positional
// descriptions from file_descriptions[]
func (u *uploads) files(c *gin.Context) ([]attachment.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read multipart form: %w", err)
	}
	headers := form.File[formFiles+"[]"]
	if len(headers) == 0 {
		headers = form.File[formFiles]
	}
	// positional: blanks are kept so indexes line up with the files
	descriptions := form.Value[formFileDescriptions+"[]"]
	if len(descriptions) == 0 {
		descriptions = form.Value[formFileDescriptions]
	}

	result := make([]attachment.Upload, 0, len(headers))
	for i, fh := range headers {
		description := ""
		if i < len(descriptions) {
			description = descriptions[i]
		}
		up, err := u.fromHeader(fh, description)
		if err != nil {
			return nil, err
		}
		result = append(result, up)
	}
	return result, nil
}
