package notional

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/notional/internal/api"
	"github.com/mesh-intelligence/notional/internal/keycache"
	"github.com/mesh-intelligence/notional/pkg/types"
)

// Client is the entry point: it owns the transport, the table-key cache,
// and hands out table and block handles.
type Client struct {
	cfg    types.Config
	api    *api.Client
	logger *slog.Logger

	keys  map[string]types.TableKeySet
	store *keycache.Store
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger handed to table handles. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client from cfg. Both a token and a user id are required.
// When cfg.Cache is set, resolved table keys are persisted under
// cfg.DataDir and reused across processes.
func New(cfg types.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:  cfg,
		api:  api.NewClient(cfg.Token, cfg.BaseURL),
		keys: make(map[string]types.TableKeySet),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if cfg.Cache && cfg.DataDir != "" {
		store, err := keycache.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		c.store = store
	}

	return c, nil
}

// Close releases the persistent key cache, if one is open.
func (c *Client) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Table resolves a page URL to its single table and returns a handle with
// the schema pre-loaded.
func (c *Client) Table(ctx context.Context, pageURL string) (*Table, error) {
	keys, err := c.TableKeysFromURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return c.TableFromKeys(ctx, keys)
}

// TableFromKeys returns a handle for an already-resolved table, with the
// schema pre-loaded.
func (c *Client) TableFromKeys(ctx context.Context, keys types.TableKeySet) (*Table, error) {
	t := NewTable(c.api, keys, c.cfg.UserID, c.logger)
	if _, err := t.Schema(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Block returns a handle for a single block.
func (c *Client) Block(blockID string) *Block {
	return newBlock(c.api, blockID, c.cfg.UserID)
}

// CachedTableKeys returns every cached url → table-key entry, merging the
// persistent cache (when enabled) with entries resolved this session.
func (c *Client) CachedTableKeys() (map[string]types.TableKeySet, error) {
	all := make(map[string]types.TableKeySet, len(c.keys))
	if c.store != nil {
		stored, err := c.store.All()
		if err != nil {
			return nil, err
		}
		for u, k := range stored {
			all[u] = k
		}
	}
	for u, k := range c.keys {
		all[u] = k
	}
	return all, nil
}

// CacheTableKeys seeds the key cache, persisting entries when the
// persistent cache is enabled.
func (c *Client) CacheTableKeys(keys map[string]types.TableKeySet) error {
	for u, k := range keys {
		c.keys[u] = k
		if c.store != nil {
			if err := c.store.Put(u, k); err != nil {
				return err
			}
		}
	}
	return nil
}

// TableKeysFromURL resolves a page URL to its table keys, consulting the
// caches first. A page with no table fails with types.ErrNoTable; a page
// with several fails with types.ErrAmbiguousTable.
//
// The page's "v" query parameter (a custom view selection) is ignored;
// resolution always yields the table's first view. Known limitation.
func (c *Client) TableKeysFromURL(ctx context.Context, pageURL string) (types.TableKeySet, error) {
	uri, err := canonicalTableURL(pageURL)
	if err != nil {
		return types.TableKeySet{}, err
	}

	if keys, ok := c.keys[uri]; ok {
		return keys, nil
	}
	if c.store != nil {
		keys, err := c.store.Get(uri)
		if err == nil {
			c.keys[uri] = keys
			return keys, nil
		}
		if !errors.Is(err, types.ErrKeyNotCached) {
			return types.TableKeySet{}, err
		}
	}

	tables, err := c.TableKeysFromPage(ctx, pageURL)
	if err != nil {
		return types.TableKeySet{}, err
	}

	switch len(tables) {
	case 0:
		return types.TableKeySet{}, fmt.Errorf("%w: %q", types.ErrNoTable, pageURL)
	case 1:
		for _, keys := range tables {
			c.keys[uri] = keys
			if c.store != nil {
				if err := c.store.Put(uri, keys); err != nil {
					return types.TableKeySet{}, err
				}
			}
			return keys, nil
		}
	}
	return types.TableKeySet{}, fmt.Errorf("%w: %q", types.ErrAmbiguousTable, pageURL)
}

// TableKeysFromPage loads a page and returns the table keys of every
// collection view on it, keyed by the table's canonical URL. Results are
// cached.
func (c *Client) TableKeysFromPage(ctx context.Context, pageURL string) (map[string]types.TableKeySet, error) {
	base, err := baseTableURL(pageURL)
	if err != nil {
		return nil, err
	}
	id, err := pageID(pageURL)
	if err != nil {
		return nil, err
	}

	chunk, err := c.api.LoadPageChunk(ctx, dashUUID(id))
	if err != nil {
		return nil, err
	}

	tables := make(map[string]types.TableKeySet)
	for _, block := range chunk.RecordMap.Block {
		v := block.Value
		if v.Type != types.TableCollectionView || v.CollectionID == "" || len(v.ViewIDs) == 0 {
			continue
		}
		tables[base+"/"+v.CollectionID] = types.TableKeySet{
			CollectionID: v.CollectionID,
			// First view wins; choosing among views is not supported.
			CollectionViewID: v.ViewIDs[0],
		}
	}

	if err := c.CacheTableKeys(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// hexID matches the undashed 32-hex page id at the end of a page path.
var hexID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// pageID extracts the undashed 32-hex id trailing the page URL's path.
func pageID(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", pageURL, err)
	}
	id := hexID.FindString(u.Path)
	if id == "" {
		return "", fmt.Errorf("%w: no page id in %q", types.ErrNoTable, pageURL)
	}
	return id, nil
}

// baseTableURL returns "scheme://host/workspace" for a page URL.
func baseTableURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", pageURL, err)
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	return u.Scheme + "://" + u.Host + "/" + segments[0], nil
}

// canonicalTableURL is the cache key for a page: the base URL plus the
// page's undashed id, dropping slugs and query parameters.
func canonicalTableURL(pageURL string) (string, error) {
	base, err := baseTableURL(pageURL)
	if err != nil {
		return "", err
	}
	id, err := pageID(pageURL)
	if err != nil {
		return "", err
	}
	return base + "/" + id, nil
}

// dashUUID converts an undashed 32-hex id into canonical UUID form.
func dashUUID(id string) string {
	if len(id) != 32 {
		return id
	}
	return id[0:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:32]
}
