package rbac

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(menu []MenuItem) []string {
	out := []string{}
	for _, m := range menu {
		out = append(out, m.Label)
	}
	return out
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"Admin", RoleAdmin},
		{"  Franchise ", RoleFranchise},
		{"Operational Manager", RoleOperationalManager},
		{"Operation Manager", RoleOperationManager},
		{"Accountant", RoleAccountant},
		{"admin", RoleUnknown}, // exact literals only
		{"SuperUser", RoleUnknown},
		{"", RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.raw))
		})
	}
	assert.NotEqual(t, RoleOperationManager, RoleOperationalManager)
	assert.Equal(t, "unknown", RoleUnknown.String())
}

func TestHasAccess(t *testing.T) {
	assert.True(t, HasAccess(nil, RoleClient))
	assert.True(t, HasAccess([]Role{}, RoleUnknown), "empty set is everyone, not nobody")
	assert.True(t, HasAccess([]Role{RoleAdmin, RoleClient}, RoleClient))
	assert.False(t, HasAccess([]Role{RoleAdmin}, RoleClient))
	assert.False(t, HasAccess([]Role{RoleAdmin}, RoleUnknown))
	assert.False(t, HasAccess([]Role{RoleOperationalManager}, RoleOperationManager))
}

var sample = []MenuItem{
	{Label: "Dashboard", Href: "/dashboard", AllowedRoles: []Role{}},
	{
		Label:        "Users",
		AllowedRoles: []Role{},
		Children: []MenuItem{
			{Label: "Create User", Href: "/users/create", AllowedRoles: []Role{RoleAdmin}},
			{Label: "User List", Href: "/users", AllowedRoles: []Role{RoleAdmin, RoleDeveloper}},
		},
	},
	{Label: "MF Number", Href: "/mf-number", AllowedRoles: []Role{RoleFranchise}},
	{
		Label:        "Bags",
		AllowedRoles: []Role{RoleAdmin, RoleFranchise},
		Children: []MenuItem{
			{Label: "Create Bag", Href: "/bags/create", AllowedRoles: []Role{RoleAdmin}},
			{Label: "Bag List", Href: "/bags", AllowedRoles: []Role{}},
		},
	},
	{Label: "Settings", Href: "/settings", AllowedRoles: nil},
}

func TestFilterMenu(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		wantLabels []string
		check      func(t *testing.T, got []MenuItem)
	}{
		{
			name:       "admin sees everything it is granted",
			role:       RoleAdmin,
			wantLabels: []string{"Dashboard", "Users", "Bags", "Settings"},
			check: func(t *testing.T, got []MenuItem) {
				assert.Equal(t, []string{"Create User", "User List"}, labels(got[1].Children))
				assert.Equal(t, []string{"Create Bag", "Bag List"}, labels(got[2].Children))
			},
		},
		{
			name: "open parent with only restricted children is pruned",
			role: RoleClient,
			// Users allows everyone but none of its children admit Client
			wantLabels: []string{"Dashboard", "Settings"},
		},
		{
			name:       "children filtered independently",
			role:       RoleFranchise,
			wantLabels: []string{"Dashboard", "MF Number", "Bags", "Settings"},
			check: func(t *testing.T, got []MenuItem) {
				assert.Equal(t, []string{"Bag List"}, labels(got[2].Children))
			},
		},
		{
			name:       "developer keeps user list only",
			role:       RoleDeveloper,
			wantLabels: []string{"Dashboard", "Users", "Settings"},
			check: func(t *testing.T, got []MenuItem) {
				assert.Equal(t, []string{"User List"}, labels(got[1].Children))
			},
		},
		{
			name:       "unknown role sees only open entries",
			role:       RoleUnknown,
			wantLabels: []string{"Dashboard", "Settings"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMenu(sample, tt.role)
			assert.Equal(t, tt.wantLabels, labels(got))
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestFilterMenu_OpenItemVisibleForEveryRole(t *testing.T) {
	for _, role := range append(Roles(), RoleUnknown) {
		got := FilterMenu(sample, role)
		require.NotEmpty(t, got, role.String())
		assert.Equal(t, "Dashboard", got[0].Label, role.String())
		assert.Equal(t, "Settings", got[len(got)-1].Label, role.String())
	}
}

func TestFilterMenu_Idempotent(t *testing.T) {
	for _, role := range append(Roles(), RoleUnknown) {
		first := FilterMenu(sample, role)
		second := FilterMenu(sample, role)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("role %s: outputs differ (-first +second):\n%s", role, diff)
		}
		// filtering an already filtered menu changes nothing
		if diff := cmp.Diff(first, FilterMenu(first, role)); diff != "" {
			t.Errorf("role %s: refilter drifted:\n%s", role, diff)
		}
	}
}

func TestFilterMenu_DoesNotMutateInput(t *testing.T) {
	before := FilterMenu(sample, RoleAdmin) // deep copy of the admin view
	got := FilterMenu(sample, RoleFranchise)
	got[2].Children[0].Label = "changed"
	got[2].AllowedRoles[0] = RoleClient

	assert.Equal(t, "Create Bag", sample[3].Children[0].Label)
	assert.Equal(t, RoleAdmin, sample[3].AllowedRoles[0])
	assert.Empty(t, cmp.Diff(before, FilterMenu(sample, RoleAdmin)))
}

func TestValidateMenu(t *testing.T) {
	require.NoError(t, ValidateMenu(sample))

	tests := []struct {
		name string
		menu []MenuItem
	}{
		{"href and children", []MenuItem{{Label: "X", Href: "/x", Children: []MenuItem{{Label: "Y", Href: "/y"}}}}},
		{"neither", []MenuItem{{Label: "X"}}},
		{"no label", []MenuItem{{Href: "/x"}}},
		{"too deep", []MenuItem{{Label: "X", Children: []MenuItem{{Label: "Y", Children: []MenuItem{{Label: "Z", Href: "/z"}}}}}}},
		{"unknown role", []MenuItem{{Label: "X", Href: "/x", AllowedRoles: []Role{"Root"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMenu(tt.menu)
			assert.True(t, errors.Is(err, ErrInvalidMenu), "got %v", err)
		})
	}
}

func TestLoadDeclaration(t *testing.T) {
	decl, err := LoadDeclaration([]byte(`
menu:
  - label: Home
    href: /home
    allowed_roles: []
  - label: Bags
    allowed_roles: [Admin]
    children:
      - label: Bag List
        href: /bags
        allowed_roles: [Admin, Operation Manager]
routes:
  - path: /bags/:awb
    allowed_roles: [Admin]
`))
	require.NoError(t, err)
	require.Len(t, decl.Menu, 2)
	assert.Equal(t, []Role{RoleAdmin, RoleOperationManager}, decl.Menu[1].Children[0].AllowedRoles)
	assert.Equal(t, "/bags/:awb", decl.Routes[0].Path)

	_, err = LoadDeclaration([]byte(`menu: [{label: X, href: /x, allowed_roles: [Boss]}]`))
	assert.ErrorIs(t, err, ErrInvalidMenu)

	_, err = LoadDeclaration([]byte(`routes: [{allowed_roles: []}]`))
	assert.ErrorIs(t, err, ErrInvalidMenu)

	_, err = LoadDeclaration([]byte(`menu: {`))
	assert.ErrorIs(t, err, ErrInvalidMenu)
}

func TestDefaultDeclaration(t *testing.T) {
	decl, err := DefaultDeclaration()
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", decl.Menu[0].Label)
	assert.Equal(t, "Settings", decl.Menu[len(decl.Menu)-1].Label)

	// franchise is listed on Users but no Users page admits it
	franchise := labels(FilterMenu(decl.Menu, RoleFranchise))
	assert.NotContains(t, franchise, "Users")
	assert.Contains(t, franchise, "MF Number")
}
