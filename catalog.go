package teamkit

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog holds the permission and role reference data for the
// application. It is created at startup and should be treated as
// immutable after initialization.
type Catalog struct {
	mu          sync.RWMutex
	permissions map[string]Permission
	permOrder   []string
	roles       map[string]*RoleConfig
}

// NewCatalog creates an empty catalog. Most applications want
// DefaultCatalog instead.
func NewCatalog() *Catalog {
	return &Catalog{
		permissions: make(map[string]Permission),
		roles:       make(map[string]*RoleConfig),
	}
}

// AddPermission registers a permission definition. Re-registering an ID
// replaces the previous definition.
func (c *Catalog) AddPermission(p Permission) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.permissions[p.ID]; !exists {
		c.permOrder = append(c.permOrder, p.ID)
	}
	c.permissions[p.ID] = p
	return c
}

// DefineRole starts defining a role config.
// Returns a RoleBuilder for fluent configuration.
//
// Example:
//
//	catalog.DefineRole("sales_agent").
//	    Name("Sales Agent").
//	    Describe("Manages sales, pricing and customer communications").
//	    Permissions("view_events", "manage_pricing").
//	    Color("#10B981").
//	    Icon("briefcase")
func (c *Catalog) DefineRole(role string) *RoleBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := &RoleConfig{Role: role}
	c.roles[role] = cfg
	return &RoleBuilder{catalog: c, cfg: cfg}
}

// ListPermissions returns all permission definitions in registration
// order.
func (c *Catalog) ListPermissions() []Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Permission, 0, len(c.permOrder))
	for _, id := range c.permOrder {
		out = append(out, c.permissions[id])
	}
	return out
}

// ListPermissionsByCategory returns permission definitions for a single
// category, in registration order.
func (c *Catalog) ListPermissionsByCategory(category PermissionCategory) []Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Permission
	for _, id := range c.permOrder {
		if p := c.permissions[id]; p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// GetPermission returns a permission definition, or nil if unknown.
func (c *Catalog) GetPermission(id string) *Permission {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.permissions[id]; ok {
		return &p
	}
	return nil
}

// ListRoleConfigs returns all role configs sorted by role identifier.
func (c *Catalog) ListRoleConfigs() []RoleConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RoleConfig, 0, len(c.roles))
	for _, cfg := range c.roles {
		out = append(out, *cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// GetRoleConfig returns the config for a role, or nil if the role is not
// defined. Lookups never fail with an error.
func (c *Catalog) GetRoleConfig(role string) *RoleConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cfg, ok := c.roles[role]; ok {
		cp := *cfg
		return &cp
	}
	return nil
}

// HasRole reports whether a role is defined in the catalog.
func (c *Catalog) HasRole(role string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.roles[role]
	return ok
}

// ValidatePermissions checks that every ID is a known permission.
func (c *Catalog) ValidatePermissions(ids []string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range ids {
		if _, ok := c.permissions[id]; !ok {
			return NewError(ErrInvalidPermission, fmt.Sprintf("permission %q not defined", id)).
				WithField("permissions")
		}
	}
	return nil
}

// RoleBuilder configures a role config fluently. It writes through to the
// catalog, so partially built roles are visible; build catalogs before
// serving traffic.
type RoleBuilder struct {
	catalog *Catalog
	cfg     *RoleConfig
}

// Name sets the display name.
func (b *RoleBuilder) Name(name string) *RoleBuilder {
	b.cfg.Name = name
	return b
}

// Describe sets the description.
func (b *RoleBuilder) Describe(description string) *RoleBuilder {
	b.cfg.Description = description
	return b
}

// Permissions appends base permission IDs granted by this role.
func (b *RoleBuilder) Permissions(ids ...string) *RoleBuilder {
	b.cfg.Permissions = append(b.cfg.Permissions, ids...)
	return b
}

// Color sets the display color.
func (b *RoleBuilder) Color(color string) *RoleBuilder {
	b.cfg.Color = color
	return b
}

// Icon sets the display icon.
func (b *RoleBuilder) Icon(icon string) *RoleBuilder {
	b.cfg.Icon = icon
	return b
}

// Custom marks the role as organizer-defined rather than predefined.
func (b *RoleBuilder) Custom() *RoleBuilder {
	b.cfg.IsCustom = true
	return b
}

// DefineRole continues defining roles on the catalog (fluent API).
func (b *RoleBuilder) DefineRole(role string) *RoleBuilder {
	return b.catalog.DefineRole(role)
}
