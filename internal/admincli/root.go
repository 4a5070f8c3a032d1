// Package admincli implements auditctl, the operator tool for managing
// credentials and reading the audit log without going through HTTP.
package admincli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/spf13/cobra"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

type commandContext struct {
	configFlag string
	dbFlag     string
	logLevel   string
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	var args []string
	if c.configFlag != "" {
		args = append(args, "-c", c.configFlag)
	}
	cfg, err := config.Load(args, lookupEnv)
	if err != nil {
		return nil, err
	}
	if c.dbFlag != "" {
		cfg.DatabaseURL = c.dbFlag
	}
	return cfg, nil
}

// openApp loads configuration and opens the application stack. The caller
// closes the returned app.
func (c *commandContext) openApp(ctx context.Context, cmd *cobra.Command) (*server.App, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), "text", c.logLevel)
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return app, cfg, nil
}

// NewRootCommand builds the auditctl command tree.
func NewRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "auditctl",
		Short:         "Administrative tool for the audit service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.dbFlag, "database-url", "", "Override DATABASE_URL")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newUserCommand(ctx))
	rootCmd.AddCommand(newAuditCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))

	return rootCmd
}
