package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
)

const flagGenesis = "genesis"

// InitCmd writes the default configuration and loads genesis into an empty
// state database.
func InitCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and genesis state",
		Long: `Write <home>/config/app.toml when it is missing and load the genesis state.

Without --genesis the default genesis of every module is used.

Example:
  $ exchanged init --home ~/.exchanged
  $ exchanged init --genesis genesis.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(configPath(clientCtx.home)); os.IsNotExist(err) {
				if err := WriteConfig(clientCtx.home, clientCtx.cfg); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
			}

			genesis := app.NewDefaultGenesisState()
			if path, _ := cmd.Flags().GetString(flagGenesis); path != "" {
				bz, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read genesis file: %w", err)
				}
				genesis = app.GenesisState{}
				if err := json.Unmarshal(bz, &genesis); err != nil {
					return fmt.Errorf("failed to decode genesis file: %w", err)
				}
			}

			exchangeApp, err := clientCtx.openApp()
			if err != nil {
				return err
			}
			defer exchangeApp.Close()

			if version := exchangeApp.LastVersion(); version != 0 {
				return fmt.Errorf("state at %s is already initialized at version %d", clientCtx.dataDir(), version)
			}
			if err := exchangeApp.InitChain(genesis); err != nil {
				return err
			}

			clientCtx.logger.Info("state initialized", "home", clientCtx.home, "version", exchangeApp.LastVersion())
			return printJSON(cmd, map[string]interface{}{
				"home":    clientCtx.home,
				"version": exchangeApp.LastVersion(),
			})
		},
	}

	cmd.Flags().String(flagGenesis, "", "path to a genesis JSON file")
	return cmd
}
