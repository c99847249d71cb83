package server

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	err := v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	})
	if err != nil {
		panic(fmt.Sprintf("register digits validation: %v", err))
	}
	return v
}

// bindQuery copies query parameters into the string, int and *int fields of
// the struct dst points to, using the `query` tag as parameter name.
func bindQuery(q url.Values, dst any) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		fv := rv.Field(i)
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(raw)
		case fv.Kind() == reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperr.Validationf("%s must be an integer", name)
			}
			fv.SetInt(int64(n))
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperr.Validationf("%s must be an integer", name)
			}
			fv.Set(reflect.ValueOf(&n))
		default:
			return fmt.Errorf("bind %s: unsupported field kind %s", name, fv.Kind())
		}
	}
	return nil
}

// check runs struct validation and turns the first violation into a 400.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.Validation(describe(verrs[0]))
	}
	return apperr.Internal("validate request", err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "digits":
		return field + " must contain only digits"
	default:
		return field + " is invalid"
	}
}

// dateRule bounds an accepted date.
type dateRule struct {
	field    string
	earliest string
}

// parse validates a YYYY-MM-DD value against the rule and today.
func (d dateRule) parse(value string, now time.Time) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validationf("%s must be a date in YYYY-MM-DD format", d.field)
	}
	if d.earliest != "" {
		floor, _ := time.Parse(dateLayout, d.earliest)
		if t.Before(floor) {
			return time.Time{}, apperr.Validationf("%s must be on or after %s", d.field, d.earliest)
		}
	}
	today, _ := time.Parse(dateLayout, now.UTC().Format(dateLayout))
	if t.After(today) {
		return time.Time{}, apperr.Validationf("%s cannot be in the future", d.field)
	}
	return t, nil
}

// dateSpan validates start <= end and end-start <= maxDays.
func dateSpan(start, end time.Time, maxDays int) error {
	if end.Before(start) {
		return apperr.Validation("start_date must be before end_date")
	}
	if end.Sub(start) > time.Duration(maxDays)*24*time.Hour {
		return apperr.Validationf("date range cannot exceed %d days", maxDays)
	}
	return nil
}
