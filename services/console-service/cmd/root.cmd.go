package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/idgen"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/internal/rbac"
	"github.com/Tanmoy095/LogiSynapse/services/console-service/store"
	"github.com/Tanmoy095/LogiSynapse/shared/config"
	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what the commands share. Tests set log before Execute to skip
// building the production logger.
type app struct {
	verbose  bool
	envFile  string
	menuFile string

	out io.Writer
	log *zap.Logger
	cfg *config.CommonConfig
}

func newRootCmd(out io.Writer) *cobra.Command {
	return newApp(out).rootCmd()
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "console",
		Short:        "LogiSynapse courier console",
		Long:         "Operator tools for the courier console: identifiers, navigation and bag splitting.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.log == nil {
				l, err := logger.New(a.verbose)
				if err != nil {
					return err
				}
				a.log = l
			}
			var files []string
			if a.envFile != "" {
				files = append(files, a.envFile)
			}
			cfg, err := config.LoadCommonConfig(files...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(a.out)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Load settings from this env file instead of ./.env")
	root.PersistentFlags().StringVar(&a.menuFile, "menu", "", "Navigation declaration (YAML); defaults to the built-in console menu")

	root.AddCommand(
		a.nextAWBCmd(),
		a.nextMFCmd(),
		a.menuCmd(),
		a.canAccessCmd(),
		a.splitBagCmd(),
	)
	return root
}

// generator opens the configured counter store. The caller closes it.
func (a *app) generator(ctx context.Context) (*idgen.Generator, func() error, error) {
	kv, closeFn, err := store.Open(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", a.cfg.STORE, err)
	}
	return idgen.NewGenerator(kv, nil, a.log), closeFn, nil
}

// navigator loads the menu declaration and logs its lint warnings.
func (a *app) navigator() (*rbac.Navigator, error) {
	var (
		decl *rbac.Declaration
		err  error
	)
	if a.menuFile != "" {
		data, readErr := os.ReadFile(a.menuFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read menu file: %w", readErr)
		}
		decl, err = rbac.LoadDeclaration(data)
	} else {
		decl, err = rbac.DefaultDeclaration()
	}
	if err != nil {
		return nil, err
	}
	for _, w := range rbac.Lint(decl) {
		a.log.Debug("menu declaration", zap.String("warning", w))
	}
	return rbac.NewNavigator(decl), nil
}
