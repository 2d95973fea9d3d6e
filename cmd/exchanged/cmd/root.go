package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// DefaultNodeHome is the home directory used when --home and EXCHANGE_HOME
// are unset.
var DefaultNodeHome = func() string {
	if home := os.Getenv("EXCHANGE_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".exchanged"
	}
	return filepath.Join(userHome, ".exchanged")
}()

// clientContext carries what every command needs once flags and config are
// resolved.
type clientContext struct {
	home   string
	cfg    Config
	logger log.Logger
}

// NewRootCmd creates the root command of exchanged.
func NewRootCmd() *cobra.Command {
	clientCtx := &clientContext{}

	rootCmd := &cobra.Command{
		Use:   "exchanged",
		Short: "Constant product exchange",
		Long: `exchanged runs a constant product exchange over a local state database.

Accounts deposit tokens, provide liquidity to two-token pools and swap through
one or more pools. Every command applies atomically and commits a new state
version.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(home, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := NewLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			clientCtx.home = home
			clientCtx.cfg = cfg
			clientCtx.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagLogLevel, defaultLogLevel, "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, defaultLogFormat, "log format (json|plain)")

	rootCmd.AddCommand(
		InitCmd(clientCtx),
		DepositCmd(clientCtx),
		WithdrawCmd(clientCtx),
		PoolCmd(clientCtx),
		LiquidityCmd(clientCtx),
		SwapCmd(clientCtx),
		ParamsCmd(clientCtx),
		QueryCmd(clientCtx),
		ExportCmd(clientCtx),
		InvariantsCmd(clientCtx),
		ServeMetricsCmd(clientCtx),
	)

	return rootCmd
}

func (c *clientContext) dataDir() string {
	return filepath.Join(c.home, "data")
}

func (c *clientContext) openApp() (*app.App, error) {
	if err := os.MkdirAll(c.dataDir(), 0o755); err != nil {
		return nil, err
	}
	db, err := dbm.NewDB("application", dbm.BackendType(c.cfg.DBBackend), c.dataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", c.cfg.DBBackend, err)
	}
	exchangeApp, err := app.New(c.logger, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return exchangeApp, nil
}

// execute runs fn against the latest state and commits when fn succeeds.
func (c *clientContext) execute(fn func(ctx sdk.Context, a *app.App) error) error {
	exchangeApp, err := c.openApp()
	if err != nil {
		return err
	}
	defer exchangeApp.Close()

	if exchangeApp.LastVersion() == 0 {
		return fmt.Errorf("state at %s is not initialized, run init first", c.dataDir())
	}
	if err := fn(exchangeApp.NewContext(), exchangeApp); err != nil {
		return err
	}
	version := exchangeApp.Commit()
	c.logger.Debug("state committed", "version", version)
	return nil
}

// query runs fn against the latest state without committing.
func (c *clientContext) query(fn func(ctx sdk.Context, a *app.App) error) error {
	exchangeApp, err := c.openApp()
	if err != nil {
		return err
	}
	defer exchangeApp.Close()

	if exchangeApp.LastVersion() == 0 {
		return fmt.Errorf("state at %s is not initialized, run init first", c.dataDir())
	}
	return fn(exchangeApp.NewContext(), exchangeApp)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
