package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// isoDateLayouts are the accepted shapes for date fields such as dateOfBirth.
var isoDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the isodate and maxbytes tags and the pwd alias.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

// Configure applies the project tags to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseISODate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	v.RegisterAlias("pwd", "min=6,maxbytes="+strconv.Itoa(MaxPasswordBytes))
}

// ParseISODate parses an ISO 8601 date or date-time and truncates it to the calendar day (UTC).
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range isoDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO date %q", s)
}

// FirstMessage returns a single message for the first failing field, e.g.
// `"password" must be at least 6 characters long`.
func FirstMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	var se *json.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "invalid json payload"
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return fmt.Sprintf("%q must be a %s", ute.Field, ute.Type.Kind())
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%q %s", fe.Field(), formatFieldError(fe))
	}
	return "invalid payload"
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "isodate":
		return "must be in ISO 8601 date format"
	case "len":
		return fmt.Sprintf("length must be %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be greater than or equal to " + param
		}
		return "length must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be less than or equal to " + param
		}
		return "length must be less than or equal to " + param + " characters long"
	case "maxbytes":
		return "length must be less than or equal to " + param + " bytes long"
	case "numeric":
		return "must be numeric"
	default:
		if param != "" {
			return fmt.Sprintf("failed on '%s' with parameter '%s'", fe.ActualTag(), param)
		}
		return fmt.Sprintf("failed on '%s'", fe.ActualTag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
