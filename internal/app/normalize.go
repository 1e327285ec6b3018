package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"rohatours/internal/domain"
)

// DefaultPackage is used when neither the request nor the config names one.
const DefaultPackage = "Standard Tour Package"

// Normalizer turns a raw request record into a Booking ready to insert.
// Client-sent status, createdAt and id are ignored.
type Normalizer struct {
	defaultPackage string
	now            func() time.Time
	validate       *validator.Validate
}

func NewNormalizer(defaultPackage string, now func() time.Time) *Normalizer {
	if strings.TrimSpace(defaultPackage) == "" {
		defaultPackage = DefaultPackage
	}
	if now == nil {
		now = time.Now
	}
	v := validator.New()
	// report fields by their wire names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Normalizer{defaultPackage: defaultPackage, now: now, validate: v}
}

// Normalize trims and defaults raw, then checks the result against the
// Booking rules. Required-field failures name the first missing field.
func (n *Normalizer) Normalize(raw map[string]any) (domain.Booking, error) {
	pkg := trimmedString(raw["package"])
	if pkg == "" {
		pkg = n.defaultPackage
	}

	b := domain.Booking{
		CustomerName:  trimmedString(raw["customerName"]),
		CustomerEmail: trimmedString(raw["customerEmail"]),
		Package:       pkg,
		TravelerCount: travelerCount(raw["travelerCount"]),
		Status:        domain.BookingStatusPending,
		// BSON dates carry milliseconds; truncate so reads match writes.
		CreatedAt: n.now().UTC().Truncate(time.Millisecond),
	}
	if err := n.validate.Struct(b); err != nil {
		return domain.Booking{}, validationError(err)
	}
	return b, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fmt.Errorf("%w: missing required field: %s", domain.ErrValidation, fe.Field())
	}
	return fmt.Errorf("%w: invalid field %s: failed %s", domain.ErrValidation, fe.Field(), fe.Tag())
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// travelerCount parses v as an integer, falling back to 1 on anything
// unparseable or below 1. Fractions are truncated toward zero.
func travelerCount(v any) int {
	n, ok := parseInt(v)
	if !ok || n < 1 {
		return 1
	}
	return n
}

func parseInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return clampInt(i), true
		}
		if f, err := t.Float64(); err == nil {
			return floatToInt(f)
		}
	case float64:
		return floatToInt(t)
	case int:
		return t, true
	case int64:
		return clampInt(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampInt(i), true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(math.Trunc(f)), true
}

func clampInt(i int64) int {
	if i > math.MaxInt32 {
		return math.MaxInt32
	}
	if i < math.MinInt32 {
		return math.MinInt32
	}
	return int(i)
}
