package types

import (
	"encoding/json"
	"fmt"
)

// StandIn is the placeholder character written as the literal text of date
// and user segments. The backend renders those from the attribute payload,
// not from the literal text.
const StandIn = "‣"

// ListSeparator is the literal segment interleaved between consecutive user
// references in a multi-user property value.
const ListSeparator = ","

// Attribute markers on the wire.
const (
	attrLink = "a"
	attrDate = "d"
	attrUser = "u"
)

// Attr is an attribute attached to a rich-text segment. The set of
// implementations is closed: LinkAttr, DateAttr, and UserAttr. A nil Attr
// means a plain literal segment.
type Attr interface {
	isAttr()
}

// LinkAttr marks a segment as a link to URL.
type LinkAttr struct {
	URL string
}

// DateAttr carries a structured date payload; the segment's literal text is
// the stand-in character.
type DateAttr struct {
	Date DateValue
}

// UserAttr references a user by internal id; the segment's literal text is
// the stand-in character.
type UserAttr struct {
	UserID string
}

func (LinkAttr) isAttr() {}
func (DateAttr) isAttr() {}
func (UserAttr) isAttr() {}

// Date payload kinds.
const (
	DateKindDatetime      = "datetime"
	DateKindDatetimeRange = "datetimerange"
)

// DateValue is the structured payload of a date attribute.
type DateValue struct {
	Kind      string `json:"type"` // DateKindDatetime or DateKindDatetimeRange
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	TimeZone  string `json:"time_zone,omitempty"`
}

// Segment is one rich-text node: a literal text run with an optional
// attribute. On the wire a segment is a nested array, either ["text"] or
// ["text", [["a","url"]]] and friends; Segment marshals to and from that
// shape so the rest of the client never touches untyped nesting.
type Segment struct {
	Text string
	Attr Attr
}

// TextValue is a property value: an ordered sequence of segments.
type TextValue []Segment

// Plain returns the literal text of the first segment, or "" when the value
// is empty.
func (tv TextValue) Plain() string {
	if len(tv) == 0 {
		return ""
	}
	return tv[0].Text
}

// MarshalJSON renders the segment in the backend's nested-array shape.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.Attr == nil {
		return json.Marshal([]any{s.Text})
	}

	var attr []any
	switch a := s.Attr.(type) {
	case LinkAttr:
		attr = []any{attrLink, a.URL}
	case DateAttr:
		attr = []any{attrDate, a.Date}
	case UserAttr:
		attr = []any{attrUser, a.UserID}
	default:
		return nil, fmt.Errorf("unsupported segment attribute %T", s.Attr)
	}

	return json.Marshal([]any{s.Text, []any{attr}})
}

// UnmarshalJSON parses the backend's nested-array shape. Attribute markers
// other than link, date, and user (bold, italic, ...) are dropped; the
// segment keeps its literal text.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("parse segment: %w", err)
	}

	*s = Segment{}
	if len(parts) == 0 {
		return nil
	}

	if err := json.Unmarshal(parts[0], &s.Text); err != nil {
		return fmt.Errorf("parse segment text: %w", err)
	}
	if len(parts) < 2 {
		return nil
	}

	var attrs []json.RawMessage
	if err := json.Unmarshal(parts[1], &attrs); err != nil {
		return fmt.Errorf("parse segment attributes: %w", err)
	}

	for _, raw := range attrs {
		var attr []json.RawMessage
		if err := json.Unmarshal(raw, &attr); err != nil {
			return fmt.Errorf("parse segment attribute: %w", err)
		}
		if len(attr) == 0 {
			continue
		}

		var marker string
		if err := json.Unmarshal(attr[0], &marker); err != nil {
			return fmt.Errorf("parse attribute marker: %w", err)
		}

		switch marker {
		case attrLink:
			var url string
			if len(attr) > 1 {
				if err := json.Unmarshal(attr[1], &url); err != nil {
					return fmt.Errorf("parse link attribute: %w", err)
				}
			}
			s.Attr = LinkAttr{URL: url}
			return nil
		case attrDate:
			var dv DateValue
			if len(attr) > 1 {
				if err := json.Unmarshal(attr[1], &dv); err != nil {
					return fmt.Errorf("parse date attribute: %w", err)
				}
			}
			s.Attr = DateAttr{Date: dv}
			return nil
		case attrUser:
			var id string
			if len(attr) > 1 {
				if err := json.Unmarshal(attr[1], &id); err != nil {
					return fmt.Errorf("parse user attribute: %w", err)
				}
			}
			s.Attr = UserAttr{UserID: id}
			return nil
		}
	}

	return nil
}
