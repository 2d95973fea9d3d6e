package cmd

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
	"github.com/forbitswap/exchange/x/exchange/keeper"
)

// ExportCmd prints the genesis state of the latest committed version.
func ExportCmd(clientCtx *clientContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export state to genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clientCtx.query(func(_ sdk.Context, a *app.App) error {
				genesis, err := a.ExportGenesis()
				if err != nil {
					return err
				}
				return printJSON(cmd, genesis)
			})
		},
	}
}

// InvariantsCmd runs every exchange invariant and fails if one is broken.
func InvariantsCmd(clientCtx *clientContext) *cobra.Command {
	return &cobra.Command{
		Use:   "invariants",
		Short: "Check the exchange invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
				var broken []string
				for _, route := range keeper.Invariants(*a.ExchangeKeeper) {
					msg, isBroken := route.Invariant(ctx)
					status := "ok"
					if isBroken {
						status = "broken"
						broken = append(broken, route.Route)
						clientCtx.logger.Error("invariant broken", "route", route.Route, "details", msg)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", route.Route, status)
				}
				if len(broken) > 0 {
					return fmt.Errorf("broken invariants: %s", strings.Join(broken, ", "))
				}
				return nil
			})
		},
	}
}
