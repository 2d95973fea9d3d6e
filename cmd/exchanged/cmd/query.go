package cmd

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
)

const (
	flagFrom  = "from"
	flagLimit = "limit"
)

// QueryCmd groups the read-only commands.
func QueryCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Querying subcommands",
	}

	poolsCmd := &cobra.Command{
		Use:   "pools",
		Short: "List pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, _ := cmd.Flags().GetUint64(flagFrom)
			limit, _ := cmd.Flags().GetUint64(flagLimit)
			return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
				pools, err := a.ExchangeKeeper.GetPools(ctx, from, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd, pools)
			})
		},
	}
	poolsCmd.Flags().Uint64(flagFrom, 0, "first pool id")
	poolsCmd.Flags().Uint64(flagLimit, 100, "maximum number of pools, 0 for all")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pool [pool-id]",
			Short: "Show a pool with its swap volumes",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					info, err := a.ExchangeKeeper.GetPoolInfo(ctx, poolID)
					if err != nil {
						return err
					}
					volumes, err := a.ExchangeKeeper.GetVolumes(ctx, poolID)
					if err != nil {
						return err
					}
					return printJSON(cmd, map[string]interface{}{
						"pool":    info,
						"volumes": volumes,
					})
				})
			},
		},
		poolsCmd,
		&cobra.Command{
			Use:     "return [pool-id] [token-in] [amount-in] [token-out]",
			Short:   "Quote a swap without executing it",
			Example: `  $ exchanged query return 0 usdc 1000 wnear`,
			Args:    cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				amountIn, err := parseAmount("amount-in", args[2])
				if err != nil {
					return err
				}
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					out, err := a.ExchangeKeeper.GetReturn(ctx, poolID, args[1], amountIn, args[3])
					if err != nil {
						return err
					}
					return printJSON(cmd, map[string]interface{}{"amount_out": out})
				})
			},
		},
		&cobra.Command{
			Use:   "shares [pool-id] [account]",
			Short: "Show the shares of an account in a pool",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					balance, err := a.ExchangeKeeper.GetShareBalance(ctx, poolID, args[1])
					if err != nil {
						return err
					}
					supply, err := a.ExchangeKeeper.GetShareTotalSupply(ctx, poolID)
					if err != nil {
						return err
					}
					registered, err := a.ExchangeKeeper.IsLP(ctx, poolID, args[1])
					if err != nil {
						return err
					}
					return printJSON(cmd, map[string]interface{}{
						"balance":      balance,
						"total_supply": supply,
						"registered":   registered,
					})
				})
			},
		},
		&cobra.Command{
			Use:   "deposits [account]",
			Short: "Show every deposit of an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					balances, err := a.EscrowKeeper.GetBalances(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(cmd, balances)
				})
			},
		},
		&cobra.Command{
			Use:   "predict-remove [pool-id] [shares]",
			Short: "Show what removing shares would pay out",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				shares, err := parseAmount("shares", args[1])
				if err != nil {
					return err
				}
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					amounts, err := a.ExchangeKeeper.PredictRemoveLiquidity(ctx, poolID, shares)
					if err != nil {
						return err
					}
					return printJSON(cmd, map[string]interface{}{"amounts": amounts})
				})
			},
		},
		&cobra.Command{
			Use:   "params",
			Short: "Show the exchange parameters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return clientCtx.query(func(ctx sdk.Context, a *app.App) error {
					return printJSON(cmd, a.ExchangeKeeper.GetParams(ctx))
				})
			},
		},
	)
	return cmd
}
