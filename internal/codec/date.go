package codec

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// Formats of the structured date payload fields.
const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"
)

// dateLayouts are the accepted shapes of a date string, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// encodeDate normalizes the value to a structured date payload on a
// stand-in segment. A single timestamp becomes a datetime payload; a
// two-element range becomes a datetimerange payload.
func encodeDate(value any) (any, error) {
	dv, err := toDateValue(value)
	if err != nil {
		return nil, err
	}
	return types.TextValue{{Text: types.StandIn, Attr: types.DateAttr{Date: dv}}}, nil
}

func toDateValue(value any) (types.DateValue, error) {
	switch v := value.(type) {
	case types.DateValue:
		return v, nil
	case string:
		t, err := parseDate(v)
		if err != nil {
			return types.DateValue{}, err
		}
		return singleDate(t), nil
	case time.Time:
		return singleDate(v), nil
	case []string:
		return dateRangeStrings(v)
	case []time.Time:
		switch len(v) {
		case 1:
			return singleDate(v[0]), nil
		case 2:
			return rangeDate(v[0], v[1]), nil
		}
		return types.DateValue{}, fmt.Errorf("%w: want one or two timestamps, got %d", types.ErrInvalidDate, len(v))
	case []any:
		ss := make([]string, len(v))
		for i, o := range v {
			ss[i] = toString(o)
		}
		return dateRangeStrings(ss)
	default:
		return types.DateValue{}, fmt.Errorf("%w: unsupported date value %T", types.ErrInvalidDate, value)
	}
}

func dateRangeStrings(ss []string) (types.DateValue, error) {
	switch len(ss) {
	case 1:
		t, err := parseDate(ss[0])
		if err != nil {
			return types.DateValue{}, err
		}
		return singleDate(t), nil
	case 2:
		start, err := parseDate(ss[0])
		if err != nil {
			return types.DateValue{}, err
		}
		end, err := parseDate(ss[1])
		if err != nil {
			return types.DateValue{}, err
		}
		return rangeDate(start, end), nil
	}
	return types.DateValue{}, fmt.Errorf("%w: want one or two timestamps, got %d", types.ErrInvalidDate, len(ss))
}

func singleDate(t time.Time) types.DateValue {
	return types.DateValue{
		Kind:      types.DateKindDatetime,
		StartDate: t.Format(dateFormat),
		StartTime: t.Format(timeFormat),
	}
}

func rangeDate(start, end time.Time) types.DateValue {
	return types.DateValue{
		Kind:      types.DateKindDatetimeRange,
		StartDate: start.Format(dateFormat),
		StartTime: start.Format(timeFormat),
		EndDate:   end.Format(dateFormat),
		EndTime:   end.Format(timeFormat),
	}
}

// parseDate tries each accepted layout in order.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, s)
}
