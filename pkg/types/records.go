package types

// Wire records returned inside a response's recordMap. Each record wraps
// its payload in a value envelope alongside the caller's access role.

// BlockValue is the payload of a block record. Row blocks carry the
// property bag plus the bookkeeping fields stamped on every write; page
// blocks of type collection_view carry the collection linkage instead.
type BlockValue struct {
	ID         string               `json:"id"`
	Version    int64                `json:"version,omitempty"`
	Type       string               `json:"type,omitempty"`
	Properties map[string]TextValue `json:"properties,omitempty"`

	CreatedByID       string `json:"created_by_id,omitempty"`
	CreatedByTable    string `json:"created_by_table,omitempty"`
	CreatedTime       int64  `json:"created_time,omitempty"`
	LastEditedByID    string `json:"last_edited_by_id,omitempty"`
	LastEditedByTable string `json:"last_edited_by_table,omitempty"`
	LastEditedTime    int64  `json:"last_edited_time,omitempty"`

	ParentID    string `json:"parent_id,omitempty"`
	ParentTable string `json:"parent_table,omitempty"`
	Alive       bool   `json:"alive,omitempty"`

	// Collection linkage, present on collection_view blocks.
	CollectionID string   `json:"collection_id,omitempty"`
	ViewIDs      []string `json:"view_ids,omitempty"`
}

// BlockRecord is a block entry in a recordMap.
type BlockRecord struct {
	Role  string     `json:"role,omitempty"`
	Value BlockValue `json:"value"`
}

// CollectionValue is the payload of a collection record.
type CollectionValue struct {
	ID       string    `json:"id"`
	Schema   RawSchema `json:"schema"`
	ParentID string    `json:"parent_id,omitempty"`
}

// CollectionRecord is a collection entry in a recordMap.
type CollectionRecord struct {
	Role  string          `json:"role,omitempty"`
	Value CollectionValue `json:"value"`
}

// Permission grants one user access to a space.
type Permission struct {
	Role   string `json:"role,omitempty"`
	UserID string `json:"user_id"`
}

// SpaceValue is the payload of a space record: workspace membership.
type SpaceValue struct {
	ID          string       `json:"id"`
	Permissions []Permission `json:"permissions"`
}

// SpaceRecord is a space entry in a recordMap.
type SpaceRecord struct {
	Role  string     `json:"role,omitempty"`
	Value SpaceValue `json:"value"`
}

// UserValue is the payload of a user record.
type UserValue struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// UserRecord is a user entry in a recordMap.
type UserRecord struct {
	Role  string    `json:"role,omitempty"`
	Value UserValue `json:"value"`
}

// RecordMap groups the records attached to a query or page-chunk response.
type RecordMap struct {
	Block      map[string]BlockRecord      `json:"block,omitempty"`
	Collection map[string]CollectionRecord `json:"collection,omitempty"`
	Space      map[string]SpaceRecord      `json:"space,omitempty"`
	NotionUser map[string]UserRecord       `json:"notion_user,omitempty"`
}

// CollectionQuery is the response of a collection query: the view's row
// ordering plus the records needed to decode it.
type CollectionQuery struct {
	Result struct {
		Type     string   `json:"type,omitempty"`
		BlockIDs []string `json:"blockIds"`
	} `json:"result"`
	RecordMap RecordMap `json:"recordMap"`
}

// PageChunk is the response of a page-chunk load.
type PageChunk struct {
	RecordMap RecordMap `json:"recordMap"`
}
