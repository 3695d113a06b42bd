package main

import (
	"fmt"

	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/rbac"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func (a *app) menuCmd() *cobra.Command {
	var rawRole string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the navigation menu visible to a role, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := a.navigator()
			if err != nil {
				return err
			}
			role := a.parseRole(rawRole)

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(nav.Menu(role)); err != nil {
				return fmt.Errorf("failed to encode menu: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&rawRole, "role", "", "Role of the signed-in user, e.g. \"Admin\" or \"Operation Manager\"")
	return cmd
}

func (a *app) canAccessCmd() *cobra.Command {
	var rawRole string
	cmd := &cobra.Command{
		Use:   "can-access ROUTE",
		Short: "Report whether a role may open a console route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, err := a.navigator()
			if err != nil {
				return err
			}
			role := a.parseRole(rawRole)

			verdict := "denied"
			if nav.CanAccess(args[0], role) {
				verdict = "allowed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", role, args[0], verdict)
			return nil
		},
	}
	cmd.Flags().StringVar(&rawRole, "role", "", "Role of the signed-in user")
	return cmd
}

// parseRole maps the flag value to a role; unrecognised values see only
// unrestricted entries.
func (a *app) parseRole(raw string) rbac.Role {
	role := rbac.ParseRole(raw)
	if !role.Known() && raw != "" {
		a.log.Warn("unrecognised role, showing unrestricted entries only", zap.String("role", raw))
	}
	return role
}
