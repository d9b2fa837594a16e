package client

import (
	"context"
	"net/http"
	"time"

	ttlcache "github.com/FloatTech/ttl"

	"github.com/quickdrop/quickdrop-go/tool"
	"github.com/quickdrop/quickdrop-go/types"
)

// cacheTTL bounds how long server config, user info and version are
// reused before being fetched again.
var cacheTTL = 5 * time.Minute

// Cache holds short-lived server metadata keyed by API origin, so
// repeated reads (TTL defaults, download domain, capabilities) do not
// hit the server every time.
type Cache struct {
	configs  *ttlcache.Cache[string, *types.ServerConfig]
	users    *ttlcache.Cache[string, *types.User]
	versions *ttlcache.Cache[string, *types.ServerVersion]
}

func NewCache() *Cache {
	return &Cache{
		configs:  ttlcache.NewCache[string, *types.ServerConfig](cacheTTL),
		users:    ttlcache.NewCache[string, *types.User](cacheTTL),
		versions: ttlcache.NewCache[string, *types.ServerVersion](cacheTTL),
	}
}

func (c *Cache) Config(origin string) *types.ServerConfig         { return c.configs.Get(origin) }
func (c *Cache) SetConfig(origin string, cfg *types.ServerConfig) { c.configs.Set(origin, cfg) }

func (c *Cache) User(origin string) *types.User          { return c.users.Get(origin) }
func (c *Cache) SetUser(origin string, user *types.User) { c.users.Set(origin, user) }

func (c *Cache) Version(origin string) *types.ServerVersion       { return c.versions.Get(origin) }
func (c *Cache) SetVersion(origin string, v *types.ServerVersion) { c.versions.Set(origin, v) }

// Invalidate drops every cached entry for an origin, used after login
// state changes.
func (c *Cache) Invalidate(origin string) {
	c.configs.Delete(origin)
	c.users.Delete(origin)
	c.versions.Delete(origin)
}

// GetConfig fetches the server configuration, cached.
func (c *Client) GetConfig(ctx context.Context) (*types.ServerConfig, error) {
	if cfg := c.cache.Config(c.BaseURL); cfg != nil {
		return cfg, nil
	}
	cfg := &types.ServerConfig{}
	if err := c.call(ctx, http.MethodGet, c.BaseURL+"/config", nil, "", cfg); err != nil {
		return nil, err
	}
	c.cache.SetConfig(c.BaseURL, cfg)
	return cfg, nil
}

// GetUser fetches the authenticated principal, cached. An auth-required
// response is not an error: anonymous access returns a nil user.
func (c *Client) GetUser(ctx context.Context) (*types.User, error) {
	if user := c.cache.User(c.BaseURL); user != nil {
		return user, nil
	}
	user := &types.User{}
	if err := c.call(ctx, http.MethodGet, c.BaseURL+"/me", nil, "", user); err != nil {
		if types.IsAuthRequired(err) {
			tool.DefaultLogger.Debugf("api: anonymous access to %s", c.BaseURL)
			return nil, nil
		}
		return nil, err
	}
	c.cache.SetUser(c.BaseURL, user)
	return user, nil
}

// InvalidateCache drops cached server metadata for this client.
func (c *Client) InvalidateCache() {
	c.cache.Invalidate(c.BaseURL)
}
