package rbac

import (
	"fmt"
	"strings"
	"sync"
)

// Navigator answers menu and route questions for one declaration and caches
// the filtered menu per role.
type Navigator struct {
	decl *Declaration

	mu    sync.RWMutex
	cache map[Role][]MenuItem
}

func NewNavigator(decl *Declaration) *Navigator {
	return &Navigator{decl: decl, cache: make(map[Role][]MenuItem)}
}

// Menu returns the menu visible to role. Callers get their own copy.
func (n *Navigator) Menu(role Role) []MenuItem {
	n.mu.RLock()
	cached, ok := n.cache[role]
	n.mu.RUnlock()
	if !ok {
		cached = FilterMenu(n.decl.Menu, role)
		n.mu.Lock()
		n.cache[role] = cached
		n.mu.Unlock()
	}
	// FilterMenu over an already filtered menu is a deep copy
	return FilterMenu(cached, role)
}

// CanAccess reports whether role may open path. Menu links are reachable when
// they survive FilterMenu, so a child also needs its section's access. Other
// pages need a matching Route. Anything undeclared is denied.
func (n *Navigator) CanAccess(path string, role Role) bool {
	path = normalizePath(path)
	for _, href := range Hrefs(n.Menu(role)) {
		if normalizePath(href) == path {
			return true
		}
	}
	for _, r := range n.decl.Routes {
		if matchPath(r.Path, path) && HasAccess(r.AllowedRoles, role) {
			return true
		}
	}
	return false
}

// Lint reports declaration entries that grant one manager spelling but not
// the other. These are left as they are and surfaced for review.
func Lint(decl *Declaration) []string {
	var warnings []string
	check := func(owner string, roles []Role) {
		var operational, operation bool
		for _, r := range roles {
			operational = operational || r == RoleOperationalManager
			operation = operation || r == RoleOperationManager
		}
		if operational != operation {
			granted := RoleOperationalManager
			if operation {
				granted = RoleOperationManager
			}
			warnings = append(warnings, fmt.Sprintf("%s grants %q only", owner, string(granted)))
		}
	}
	for _, item := range decl.Menu {
		check("menu "+item.Label, item.AllowedRoles)
		for _, child := range item.Children {
			check("menu "+item.Label+" > "+child.Label, child.AllowedRoles)
		}
	}
	for _, r := range decl.Routes {
		check("route "+r.Path, r.AllowedRoles)
	}
	return warnings
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func matchPath(pattern, path string) bool {
	ps := strings.Split(normalizePath(pattern), "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
