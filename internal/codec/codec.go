// Package codec translates between typed application values and the
// backend's rich-text segment wire format, dispatched by column type.
//
// Decoding never fails: absent or malformed property data degrades to the
// column type's default value. Encoding returns an error only when a value
// cannot be coerced to the column's wire shape (for example an unparseable
// date). The date and user paths are deliberately asymmetric: decode
// surfaces the structured payload or raw user id, while encode expects the
// caller to supply timestamps or user ids in application shape.
package codec

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// RowMeta carries the row-level bookkeeping fields that the metadata-sourced
// column types (created_by, created_time, ...) decode from instead of the
// property bag. Timestamps are epoch milliseconds; zero means absent.
type RowMeta struct {
	CreatedByID    string
	LastEditedByID string
	CreatedTime    int64
	LastEditedTime int64
}

// codec pairs the decode and encode rules for one column type. A nil encode
// falls back to the literal text wrap.
type codec struct {
	decode func(prop types.TextValue, meta RowMeta) any
	encode func(value any) (any, error)
}

// codecs maps every recognized column type to its rules. A test asserts the
// table covers types.AllColumnTypes.
var codecs = map[types.ColumnType]codec{
	types.ColumnText:        {decode: decodeLiteral, encode: encodeText},
	types.ColumnURL:         {decode: decodeLiteral, encode: encodeLink},
	types.ColumnEmail:       {decode: decodeLiteral, encode: encodeLink},
	types.ColumnPhoneNumber: {decode: decodeLiteral, encode: encodeLink},
	types.ColumnFile:        {decode: decodeLiteral, encode: encodeLink},
	types.ColumnDate:        {decode: decodeLiteral, encode: encodeDate},
	types.ColumnMultiSelect: {decode: decodeMultiSelect, encode: encodeMultiSelect},
	types.ColumnCheckbox:    {decode: decodeCheckbox, encode: encodeCheckbox},
	types.ColumnUser:        {decode: decodeLiteral, encode: encodeUsers},
	types.ColumnPerson:      {decode: decodeLiteral, encode: encodeUsers},
	types.ColumnID:          {decode: decodeLiteral},

	types.ColumnCreatedBy:      {decode: decodeCreatedBy},
	types.ColumnCreatedTime:    {decode: decodeCreatedTime},
	types.ColumnLastEditedBy:   {decode: decodeLastEditedBy},
	types.ColumnLastEditedTime: {decode: decodeLastEditedTime},
}

// Decode converts a wire property value to its application shape for the
// given column type. An absent property yields types.DefaultValue(ct).
func Decode(ct types.ColumnType, prop types.TextValue, meta RowMeta) any {
	c, ok := codecs[ct]
	if !ok {
		c = codec{decode: decodeLiteral}
	}

	if MetadataSourced(ct) {
		return c.decode(prop, meta)
	}
	if len(prop) == 0 {
		return types.DefaultValue(ct)
	}
	return c.decode(prop, meta)
}

// Encode converts an application value to the operation args written for
// the given column type.
func Encode(ct types.ColumnType, value any) (any, error) {
	c := codecs[ct]
	if c.encode == nil {
		return encodeLiteral(value)
	}
	return c.encode(value)
}

// MetadataSourced reports whether the column type reads from the row's
// bookkeeping fields rather than the property bag.
func MetadataSourced(ct types.ColumnType) bool {
	switch ct {
	case types.ColumnCreatedBy, types.ColumnCreatedTime,
		types.ColumnLastEditedBy, types.ColumnLastEditedTime:
		return true
	}
	return false
}

// segmentValue extracts the application value of the first segment: the
// structured payload for a date attribute, the referenced user id for a
// user attribute, and the literal text otherwise.
//
// Resolving a user id to a display name here is a documented future
// extension; the raw id is surfaced as-is.
func segmentValue(prop types.TextValue) any {
	if len(prop) == 0 {
		return ""
	}
	switch a := prop[0].Attr.(type) {
	case types.DateAttr:
		return a.Date
	case types.UserAttr:
		return a.UserID
	default:
		return prop[0].Text
	}
}

// stringValue is segmentValue coerced to a string, "" when the segment
// carries a structured payload.
func stringValue(prop types.TextValue) string {
	s, _ := segmentValue(prop).(string)
	return s
}

func decodeLiteral(prop types.TextValue, _ RowMeta) any {
	return segmentValue(prop)
}

func decodeMultiSelect(prop types.TextValue, _ RowMeta) any {
	return strings.Split(stringValue(prop), ",")
}

func decodeCheckbox(prop types.TextValue, _ RowMeta) any {
	return stringValue(prop) == "Yes"
}

func decodeCreatedBy(_ types.TextValue, meta RowMeta) any {
	if meta.CreatedByID == "" {
		return nil
	}
	return meta.CreatedByID
}

func decodeLastEditedBy(_ types.TextValue, meta RowMeta) any {
	if meta.LastEditedByID == "" {
		return nil
	}
	return meta.LastEditedByID
}

func decodeCreatedTime(_ types.TextValue, meta RowMeta) any {
	return isoTimestamp(meta.CreatedTime)
}

func decodeLastEditedTime(_ types.TextValue, meta RowMeta) any {
	return isoTimestamp(meta.LastEditedTime)
}

// isoTimestamp renders an epoch-millisecond timestamp as ISO-8601 in UTC.
// Zero decodes to nil.
func isoTimestamp(ms int64) any {
	if ms == 0 {
		return nil
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// encodeText writes the value verbatim as a single literal segment,
// embedded newlines included. Text skips attribute wrapping entirely; the
// write boundary treats it as pre-formatted.
func encodeText(value any) (any, error) {
	return types.TextValue{{Text: toString(value)}}, nil
}

// encodeLink wraps the value as a single segment carrying a link attribute
// that references the same value.
func encodeLink(value any) (any, error) {
	s := toString(value)
	return types.TextValue{{Text: s, Attr: types.LinkAttr{URL: s}}}, nil
}

// encodeMultiSelect joins the options with a comma into one literal
// segment.
func encodeMultiSelect(value any) (any, error) {
	switch v := value.(type) {
	case []string:
		return types.TextValue{{Text: strings.Join(v, ",")}}, nil
	case []any:
		opts := make([]string, len(v))
		for i, o := range v {
			opts[i] = toString(o)
		}
		return types.TextValue{{Text: strings.Join(opts, ",")}}, nil
	case string:
		return types.TextValue{{Text: v}}, nil
	default:
		return nil, fmt.Errorf("%w: multi_select wants a string slice, got %T", types.ErrInvalidValue, value)
	}
}

// encodeCheckbox writes true as a literal "Yes" segment. False clears the
// property: the args are nil, not an empty or "No" value.
func encodeCheckbox(value any) (any, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: checkbox wants a bool, got %T", types.ErrInvalidValue, value)
	}
	if !b {
		return nil, nil
	}
	return types.TextValue{{Text: "Yes"}}, nil
}

// encodeUsers wraps each user id as a stand-in segment with a user
// attribute, interleaving a literal comma separator between consecutive
// entries but not after the last.
func encodeUsers(value any) (any, error) {
	var ids []string
	switch v := value.(type) {
	case string:
		ids = []string{v}
	case []string:
		ids = v
	case []any:
		ids = make([]string, len(v))
		for i, o := range v {
			ids[i] = toString(o)
		}
	default:
		return nil, fmt.Errorf("%w: user wants a string or string slice, got %T", types.ErrInvalidValue, value)
	}

	tv := make(types.TextValue, 0, 2*len(ids))
	for i, id := range ids {
		tv = append(tv, types.Segment{Text: types.StandIn, Attr: types.UserAttr{UserID: id}})
		if i != len(ids)-1 {
			tv = append(tv, types.Segment{Text: types.ListSeparator})
		}
	}
	return tv, nil
}

// encodeLiteral is the fallback for unrecognized types: a single literal
// segment, unmodified.
func encodeLiteral(value any) (any, error) {
	return types.TextValue{{Text: toString(value)}}, nil
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
