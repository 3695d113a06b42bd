package rbac

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultDeclaration []byte

var ErrInvalidMenu = errors.New("invalid menu declaration")

// MenuItem is either a leaf with an Href or a section with Children, never
// both. Sections nest one level only.
type MenuItem struct {
	Label        string     `yaml:"label" json:"label"`
	Href         string     `yaml:"href,omitempty" json:"href,omitempty"`
	AllowedRoles []Role     `yaml:"allowed_roles" json:"allowed_roles"`
	Children     []MenuItem `yaml:"children,omitempty" json:"children,omitempty"`
}

// Route guards a page that has no menu entry, e.g. a detail or action page.
// Path segments starting with ':' match any single segment.
type Route struct {
	Path         string `yaml:"path"`
	AllowedRoles []Role `yaml:"allowed_roles"`
}

// Declaration is the whole navigation surface of the console.
type Declaration struct {
	Menu   []MenuItem `yaml:"menu"`
	Routes []Route    `yaml:"routes"`
}

// LoadDeclaration parses and validates a YAML declaration.
func LoadDeclaration(data []byte) (*Declaration, error) {
	var d Declaration
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenu, err)
	}
	if err := ValidateMenu(d.Menu); err != nil {
		return nil, err
	}
	for _, r := range d.Routes {
		if r.Path == "" {
			return nil, fmt.Errorf("%w: route without path", ErrInvalidMenu)
		}
		if err := checkRoles(r.Path, r.AllowedRoles); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

// DefaultDeclaration returns the console's built-in navigation.
func DefaultDeclaration() (*Declaration, error) {
	return LoadDeclaration(defaultDeclaration)
}

// ValidateMenu checks the structural rules of a menu tree.
func ValidateMenu(menu []MenuItem) error {
	for _, item := range menu {
		if err := validateItem(item, 0); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item MenuItem, depth int) error {
	if item.Label == "" {
		return fmt.Errorf("%w: item without label", ErrInvalidMenu)
	}
	hasChildren := len(item.Children) > 0
	switch {
	case item.Href != "" && hasChildren:
		return fmt.Errorf("%w: %q has both href and children", ErrInvalidMenu, item.Label)
	case item.Href == "" && !hasChildren:
		return fmt.Errorf("%w: %q has neither href nor children", ErrInvalidMenu, item.Label)
	case hasChildren && depth > 0:
		return fmt.Errorf("%w: %q nests deeper than one level", ErrInvalidMenu, item.Label)
	}
	if err := checkRoles(item.Label, item.AllowedRoles); err != nil {
		return err
	}
	for _, child := range item.Children {
		if err := validateItem(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func checkRoles(owner string, roles []Role) error {
	for _, r := range roles {
		if !r.Known() {
			return fmt.Errorf("%w: %q allows unknown role %q", ErrInvalidMenu, owner, string(r))
		}
	}
	return nil
}

// FilterMenu returns the part of menu visible to role, in declaration order.
// A section survives only if role passes its own check and at least one child
// survives; leaves survive on their own check. The result shares no slices
// with menu.
func FilterMenu(menu []MenuItem, role Role) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if !HasAccess(item.AllowedRoles, role) {
			continue
		}
		if len(item.Children) == 0 {
			out = append(out, item.clone())
			continue
		}

		kids := make([]MenuItem, 0, len(item.Children))
		for _, child := range item.Children {
			if HasAccess(child.AllowedRoles, role) {
				kids = append(kids, child.clone())
			}
		}
		// a section with nothing to open is pruned
		if len(kids) == 0 {
			continue
		}
		section := item.clone()
		section.Children = kids
		out = append(out, section)
	}
	return out
}

func (m MenuItem) clone() MenuItem {
	c := MenuItem{Label: m.Label, Href: m.Href}
	if m.AllowedRoles != nil {
		c.AllowedRoles = append([]Role{}, m.AllowedRoles...)
	}
	if m.Children != nil {
		c.Children = make([]MenuItem, len(m.Children))
		for i, child := range m.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}

// Hrefs flattens the leaf links of menu in order.
func Hrefs(menu []MenuItem) []string {
	var out []string
	for _, item := range menu {
		if item.Href != "" {
			out = append(out, item.Href)
		}
		for _, child := range item.Children {
			if child.Href != "" {
				out = append(out, child.Href)
			}
		}
	}
	return out
}
