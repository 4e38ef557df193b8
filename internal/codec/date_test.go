package codec

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mesh-intelligence/notional/pkg/types"
)

func TestEncodeDateShapes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  types.DateValue
	}{
		{
			"date-only string",
			"2024-03-01",
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", StartTime: "00:00"},
		},
		{
			"datetime string",
			"2024-03-01 09:30",
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", StartTime: "09:30"},
		},
		{
			"rfc3339 string",
			"2024-03-01T09:30:00Z",
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", StartTime: "09:30"},
		},
		{
			"time.Time",
			time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", StartTime: "09:30"},
		},
		{
			"string range",
			[]string{"2024-03-01", "2024-03-02"},
			types.DateValue{
				Kind:      types.DateKindDatetimeRange,
				StartDate: "2024-03-01", StartTime: "00:00",
				EndDate: "2024-03-02", EndTime: "00:00",
			},
		},
		{
			"single-element slice",
			[]string{"2024-03-01"},
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", StartTime: "00:00"},
		},
		{
			"time.Time range",
			[]time.Time{
				time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 2, 17, 0, 0, 0, time.UTC),
			},
			types.DateValue{
				Kind:      types.DateKindDatetimeRange,
				StartDate: "2024-03-01", StartTime: "09:00",
				EndDate: "2024-03-02", EndTime: "17:00",
			},
		},
		{
			"structured payload passthrough",
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", TimeZone: "Europe/London"},
			types.DateValue{Kind: types.DateKindDatetime, StartDate: "2024-03-01", TimeZone: "Europe/London"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(types.ColumnDate, tt.value)
			if err != nil {
				t.Fatalf("Encode(date) error = %v", err)
			}
			prop, ok := encoded.(types.TextValue)
			if !ok || len(prop) != 1 {
				t.Fatalf("Encode(date) = %#v, want a single segment", encoded)
			}
			if prop[0].Text != types.StandIn {
				t.Errorf("segment text = %q, want stand-in", prop[0].Text)
			}
			attr, ok := prop[0].Attr.(types.DateAttr)
			if !ok {
				t.Fatalf("segment attr = %T, want DateAttr", prop[0].Attr)
			}
			if !reflect.DeepEqual(attr.Date, tt.want) {
				t.Errorf("date payload = %+v, want %+v", attr.Date, tt.want)
			}
		})
	}
}

func TestEncodeDateInvalid(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"unparseable string", "not a date"},
		{"empty slice", []string{}},
		{"three-element slice", []string{"2024-03-01", "2024-03-02", "2024-03-03"}},
		{"unsupported type", 42},
		{"bad range member", []string{"2024-03-01", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Encode(types.ColumnDate, tt.value); !errors.Is(err, types.ErrInvalidDate) {
				t.Errorf("Encode(date, %v) error = %v, want %v", tt.value, err, types.ErrInvalidDate)
			}
		})
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-01T09:30:00Z", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01T09:30:00", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01 09:30", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if err != nil {
				t.Fatalf("parseDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
