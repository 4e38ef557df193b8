package types

// ColumnType identifies how a column's values are encoded on the wire and
// what shape they take after decoding.
type ColumnType string

// Column types recognized by the codec. The set is closed: every type has
// exactly one decode rule and one encode rule.
const (
	ColumnText           ColumnType = "text"
	ColumnURL            ColumnType = "url"
	ColumnEmail          ColumnType = "email"
	ColumnPhoneNumber    ColumnType = "phone_number"
	ColumnFile           ColumnType = "file"
	ColumnDate           ColumnType = "date"
	ColumnMultiSelect    ColumnType = "multi_select"
	ColumnCheckbox       ColumnType = "checkbox"
	ColumnUser           ColumnType = "user"
	ColumnPerson         ColumnType = "person"
	ColumnCreatedBy      ColumnType = "created_by"
	ColumnCreatedTime    ColumnType = "created_time"
	ColumnLastEditedBy   ColumnType = "last_edited_by"
	ColumnLastEditedTime ColumnType = "last_edited_time"
	ColumnID             ColumnType = "id"
)

// AllColumnTypes lists every recognized column type for enumeration.
var AllColumnTypes = []ColumnType{
	ColumnText,
	ColumnURL,
	ColumnEmail,
	ColumnPhoneNumber,
	ColumnFile,
	ColumnDate,
	ColumnMultiSelect,
	ColumnCheckbox,
	ColumnUser,
	ColumnPerson,
	ColumnCreatedBy,
	ColumnCreatedTime,
	ColumnLastEditedBy,
	ColumnLastEditedTime,
	ColumnID,
}

// validColumnTypes is the set of recognized column types.
var validColumnTypes = func() map[ColumnType]bool {
	m := make(map[ColumnType]bool, len(AllColumnTypes))
	for _, ct := range AllColumnTypes {
		m[ct] = true
	}
	return m
}()

// IsValidColumnType reports whether ct is a recognized column type.
func IsValidColumnType(ct ColumnType) bool {
	return validColumnTypes[ct]
}

// DefaultValue returns the value a column decodes to when the row carries
// no property for it: an empty string slice for file and multi_select,
// false for checkbox, and nil for everything else. Decoding absent data
// never fails; it degrades to these defaults.
func DefaultValue(ct ColumnType) any {
	switch ct {
	case ColumnFile, ColumnMultiSelect:
		return []string{}
	case ColumnCheckbox:
		return false
	default:
		return nil
	}
}
