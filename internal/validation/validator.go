// Package validation checks show payloads with go-playground/validator and
// turns failures into the user-facing messages the API returns.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User-facing messages.  Clients match on "required" and "HTTPS".
const (
	MsgRequired = "All fields are required"
	MsgHTTPS    = "Cover image URL must be a valid HTTPS URL"
)

// httpsPattern accepts https:// followed by a host-like first character
// and no whitespace anywhere after it.
var httpsPattern = regexp.MustCompile(`^https://[^\s/$.?#].[^\s]*$`)

// IsHTTPSURL reports whether u is acceptable as a cover image URL.
func IsHTTPSURL(u string) bool {
	return httpsPattern.MatchString(u)
}

// Error is a validation failure carrying the message shown to the user.
type Error struct {
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

// ShowInput is the normalised body of a create or update request.
type ShowInput struct {
	Title         string `json:"title" validate:"required"`
	CoverImageURL string `json:"cover_image_url" validate:"required,https_url"`
	Genre         string `json:"genre" validate:"max=100"`
	IsEnded       bool   `json:"is_ended"`
}

// Normalize trims every string field in place.
func (in *ShowInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	in.Genre = strings.TrimSpace(in.Genre)
}

// Validator wraps go-playground/validator with message conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the https_url rule registered.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in field errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})
	_ = v.RegisterValidation("https_url", func(fl validator.FieldLevel) bool {
		return IsHTTPSURL(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns an *Error on failure.  Missing
// fields win over malformed ones so the message names the first problem
// a user has to fix.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	msg := ""
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
		switch {
		case fe.Tag() == "required":
			msg = MsgRequired
		case fe.Tag() == "https_url" && msg == "":
			msg = MsgHTTPS
		case msg == "":
			msg = fe.Field() + " is invalid"
		}
	}
	return &Error{Message: msg, Fields: fields}
}
