// Package userdir resolves workspace members for user and person columns.
package userdir

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// Fetcher is the transport capability the directory consumes: workspace
// membership first, then the member records themselves.
type Fetcher interface {
	LoadUserContent(ctx context.Context) (map[string]types.SpaceRecord, error)
	SyncRecordValues(ctx context.Context, userIDs []string) (map[string]types.UserRecord, error)
}

// Directory caches the workspace member list for the lifetime of its table
// handle. An empty fetch result is not cached; the next call retries.
type Directory struct {
	fetcher Fetcher
	users   []types.User
}

// New returns an empty Directory over the given fetcher.
func New(fetcher Fetcher) *Directory {
	return &Directory{fetcher: fetcher}
}

// List returns the workspace members, fetching them on first use. Member
// ids are gathered across every space the caller can see, deduplicated in
// first-seen order.
func (d *Directory) List(ctx context.Context) ([]types.User, error) {
	if len(d.users) > 0 {
		return d.users, nil
	}

	spaces, err := d.fetcher.LoadUserContent(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	seen := make(map[string]bool)
	for _, space := range spaces {
		for _, perm := range space.Value.Permissions {
			if perm.UserID == "" || seen[perm.UserID] {
				continue
			}
			seen[perm.UserID] = true
			ids = append(ids, perm.UserID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	records, err := d.fetcher.SyncRecordValues(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]types.User, 0, len(ids))
	for _, id := range ids {
		rec, ok := records[id]
		if !ok {
			continue
		}
		users = append(users, types.User{
			ID:         rec.Value.ID,
			GivenName:  rec.Value.GivenName,
			FamilyName: rec.Value.FamilyName,
			Email:      rec.Value.Email,
			PhotoURL:   rec.Value.ProfilePhoto,
		})
	}

	if len(users) > 0 {
		d.users = users
	}
	return users, nil
}

// ResolveID maps a user reference to an internal id using the cached
// member list: an exact id match wins, then a case-insensitive match on
// "GivenName FamilyName". Unresolved references (including any reference
// before the list has been fetched) pass through verbatim for the backend
// to accept or reject; ResolveID never fails.
func (d *Directory) ResolveID(value string) string {
	for _, u := range d.users {
		if u.ID == value || strings.EqualFold(u.DisplayName(), value) {
			return u.ID
		}
	}
	return value
}
