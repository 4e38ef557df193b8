package types

import "strings"

// User is one workspace member as surfaced by the user directory.
type User struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// DisplayName returns "GivenName FamilyName", the form user references are
// matched against when resolving a name to an id.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.GivenName + " " + u.FamilyName)
}
