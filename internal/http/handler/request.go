package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rentalapi/internal/service"
	"rentalapi/internal/upload"
)

// File form fields accepted on payment create and update.
const (
	fieldProof   = "comprobante"
	fieldReceipt = "recibo"
)

// dateLayouts are tried in order for date fields. A bare month means its
// first day.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "2006-01"}

// fields holds request body values by name. A nil value is an explicit JSON
// null; an absent key was not sent.
type fields map[string]*string

// readFields reads a JSON, multipart or urlencoded body into fields. Form
// encodings cannot express null, so an empty string stands for it.
func readFields(c *fiber.Ctx) (fields, error) {
	out := fields{}
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, invalidBody("malformed multipart body")
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				s := v[0]
				out[k] = &s
			}
		}
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			s := string(v)
			out[string(k)] = &s
		})
	default:
		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 {
			return out, nil
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, invalidBody("malformed JSON body")
		}
		for k, v := range raw {
			if string(v) == "null" {
				out[k] = nil
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				s = string(v)
			}
			out[k] = &s
		}
	}
	return out, nil
}

func invalidBody(msg string) error {
	return &service.ValidationError{Field: "body", Message: msg}
}

// has reports whether name was sent, even as null.
func (f fields) has(name string) bool {
	_, ok := f[name]
	return ok
}

// value returns the trimmed value of name, or nil when absent, null or blank.
func (f fields) value(name string) *string {
	v := f[name]
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// text returns name as sent. Unlike value, a blank string is kept so updates
// can clear optional text.
func (f fields) text(name string) *string {
	return f[name]
}

func (f fields) int64(name string) (*int64, error) {
	v := f.value(name)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		return nil, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return &n, nil
}

func (f fields) int(name string) (*int, error) {
	n, err := f.int64(name)
	if n == nil || err != nil {
		return nil, err
	}
	i := int(*n)
	return &i, nil
}

func (f fields) decimal(name string) (*decimal.Decimal, error) {
	v := f.value(name)
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, &service.ValidationError{Field: name, Message: "must be a number"}
	}
	return &d, nil
}

func (f fields) date(name string) (*time.Time, error) {
	v := f.value(name)
	if v == nil {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &service.ValidationError{Field: name, Message: "must be a date (YYYY-MM-DD)"}
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// queryInt reads a required integer query parameter.
func queryInt(c *fiber.Ctx, name string) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, &service.ValidationError{Field: name, Message: "is required"}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: "must be an integer"}
	}
	return n, nil
}

// bindJSON decodes a JSON body into dst.
func bindJSON(c *fiber.Ctx, dst any) error {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &service.ValidationError{Field: typeErr.Field, Message: "has the wrong type"}
		}
		return invalidBody("malformed JSON body")
	}
	return nil
}

// FileSpooler copies multipart files to temporary storage.
type FileSpooler interface {
	Spool(fh *multipart.FileHeader, field string) (*upload.File, error)
	Remove(files ...*upload.File)
}

// spoolFiles spools the optional proof and receipt files of a multipart
// request. Any other file field, or more than one file per field, is
// rejected. Nothing stays spooled when an error is returned.
func spoolFiles(c *fiber.Ctx, sp FileSpooler) (proof, receipt *upload.File, err error) {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil, nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, invalidBody("malformed multipart body")
	}
	for name, fhs := range form.File {
		if name != fieldProof && name != fieldReceipt {
			return nil, nil, &service.ValidationError{Field: name, Message: "unexpected file field"}
		}
		if len(fhs) > 1 {
			return nil, nil, &service.ValidationError{Field: name, Message: "only one file is allowed"}
		}
	}

	defer func() {
		if err != nil {
			sp.Remove(proof, receipt)
			proof, receipt = nil, nil
		}
	}()
	if fhs := form.File[fieldProof]; len(fhs) == 1 {
		if proof, err = sp.Spool(fhs[0], fieldProof); err != nil {
			return
		}
	}
	if fhs := form.File[fieldReceipt]; len(fhs) == 1 {
		if receipt, err = sp.Spool(fhs[0], fieldReceipt); err != nil {
			return
		}
	}
	return proof, receipt, nil
}

// baseURL is the scheme and host the client used, honouring a proxy's
// X-Forwarded-Proto.
func baseURL(c *fiber.Ctx) string {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Hostname()
}
