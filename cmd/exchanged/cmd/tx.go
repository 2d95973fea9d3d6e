package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/forbitswap/exchange/app"
	"github.com/forbitswap/exchange/x/exchange/types"
)

const (
	flagMinAmounts   = "min-amounts"
	flagMinAmountOut = "min-amount-out"
	flagReferral     = "referral"

	flagExchangeFee     = "exchange-fee"
	flagReferralFee     = "referral-fee"
	flagExchangeAccount = "exchange-account"
)

// DepositCmd credits tokens to an account's exchange deposit.
func DepositCmd(clientCtx *clientContext) *cobra.Command {
	return &cobra.Command{
		Use:     "deposit [account] [token] [amount]",
		Short:   "Deposit tokens to an account",
		Example: `  $ exchanged deposit alice usdc 1000000`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				if err := a.EscrowKeeper.Deposit(ctx, args[0], args[1], amount); err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{
					"account": args[0],
					"token":   args[1],
					"balance": a.EscrowKeeper.GetBalance(ctx, args[0], args[1]).String(),
				})
			})
		},
	}
}

// WithdrawCmd debits tokens from an account's exchange deposit.
func WithdrawCmd(clientCtx *clientContext) *cobra.Command {
	return &cobra.Command{
		Use:     "withdraw [account] [token] [amount]",
		Short:   "Withdraw deposited tokens",
		Example: `  $ exchanged withdraw alice usdc 500`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				if err := a.EscrowKeeper.Withdraw(ctx, args[0], args[1], amount); err != nil {
					return err
				}
				return printJSON(cmd, map[string]string{
					"account": args[0],
					"token":   args[1],
					"balance": a.EscrowKeeper.GetBalance(ctx, args[0], args[1]).String(),
				})
			})
		},
	}
}

// PoolCmd groups the pool management commands.
func PoolCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Pool management subcommands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [creator] [token-a] [token-b] [fee]",
			Short: "Create a constant product pool",
			Long: `Create a pool for two distinct tokens. The fee is in basis points of 10000.

Example:
  $ exchanged pool create alice usdc wnear 30`,
			Args: cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				fee, err := strconv.ParseUint(args[3], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid fee: %s (must be integer)", args[3])
				}
				return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
					poolID, err := a.ExchangeKeeper.CreatePool(ctx, args[0], []string{args[1], args[2]}, uint32(fee))
					if err != nil {
						return err
					}
					return printJSON(cmd, map[string]uint64{"pool_id": poolID})
				})
			},
		},
		&cobra.Command{
			Use:   "register [pool-id] [account]",
			Short: "Create an empty share entry for an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
					return a.ExchangeKeeper.RegisterShares(ctx, poolID, args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "unregister [pool-id] [account]",
			Short: "Drop the empty share entry of an account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				poolID, err := parsePoolID(args[0])
				if err != nil {
					return err
				}
				return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
					return a.ExchangeKeeper.UnregisterShares(ctx, poolID, args[1])
				})
			},
		},
	)
	return cmd
}

// LiquidityCmd groups the add and remove liquidity commands.
func LiquidityCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity",
		Short: "Liquidity subcommands",
	}

	addCmd := &cobra.Command{
		Use:   "add [account] [pool-id] [amount-a] [amount-b]",
		Short: "Add liquidity from deposits",
		Long: `Add liquidity to a pool from the account's deposits. Only the amounts the
pool consumes at its current ratio are withdrawn.

Example:
  $ exchanged liquidity add alice 0 1000000 2000000 --min-amounts 990000,1980000`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[1])
			if err != nil {
				return err
			}
			amounts, err := parseAmounts(args[2:])
			if err != nil {
				return err
			}
			minAmounts, err := minAmountsFlag(cmd)
			if err != nil {
				return err
			}
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				shares, used, err := a.ExchangeKeeper.AddLiquidity(ctx, args[0], poolID, amounts, minAmounts)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{
					"shares":  shares,
					"amounts": used,
				})
			})
		},
	}
	addCmd.Flags().String(flagMinAmounts, "", "comma separated minimum amounts to consume")

	removeCmd := &cobra.Command{
		Use:     "remove [account] [pool-id] [shares]",
		Short:   "Burn shares and credit the pool assets to deposits",
		Example: `  $ exchanged liquidity remove alice 0 500000000000000000000000 --min-amounts 1,1`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[1])
			if err != nil {
				return err
			}
			shares, err := parseAmount("shares", args[2])
			if err != nil {
				return err
			}
			minAmounts, err := minAmountsFlag(cmd)
			if err != nil {
				return err
			}
			if minAmounts == nil {
				minAmounts = []math.Uint{math.ZeroUint(), math.ZeroUint()}
			}
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				amounts, err := a.ExchangeKeeper.RemoveLiquidity(ctx, args[0], poolID, shares, minAmounts)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{"amounts": amounts})
			})
		},
	}
	removeCmd.Flags().String(flagMinAmounts, "", "comma separated minimum amounts to receive")

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}

// SwapCmd swaps along a route of one or more pools.
func SwapCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [account] [amount-in] [pool-id:token-in:token-out]...",
		Short: "Swap deposited tokens along a route",
		Long: `Swap amount-in through each hop in order. Every hop after the first spends
the output of the previous one. --min-amount-out applies to the last hop.

Example:
  $ exchanged swap alice 1000 0:usdc:wnear
  $ exchanged swap alice 1000 0:usdc:wnear 1:wnear:dai --min-amount-out 950 --referral bob`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amountIn, err := parseAmount("amount-in", args[1])
			if err != nil {
				return err
			}
			minOutStr, _ := cmd.Flags().GetString(flagMinAmountOut)
			minOut, err := math.ParseUint(minOutStr)
			if err != nil {
				return fmt.Errorf("invalid %s: %s", flagMinAmountOut, minOutStr)
			}
			referral, _ := cmd.Flags().GetString(flagReferral)

			actions, err := parseRoute(args[2:], amountIn, minOut)
			if err != nil {
				return err
			}
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				out, err := a.ExchangeKeeper.Swap(ctx, args[0], actions, referral)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{
					"amount_out": out,
					"token_out":  actions[len(actions)-1].TokenOut,
				})
			})
		},
	}

	cmd.Flags().String(flagMinAmountOut, "0", "minimum output of the last hop")
	cmd.Flags().String(flagReferral, "", "account receiving the referral fee share")
	return cmd
}

// ParamsCmd groups the module parameter commands.
func ParamsCmd(clientCtx *clientContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Module parameter subcommands",
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update exchange parameters",
		Long: `Update the parameters given as flags. Unset flags keep their value.

Example:
  $ exchanged params set --exchange-fee 20 --referral-fee 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clientCtx.execute(func(ctx sdk.Context, a *app.App) error {
				params := a.ExchangeKeeper.GetParams(ctx)
				flags := cmd.Flags()
				if flags.Changed(flagExchangeFee) {
					params.ExchangeFee, _ = flags.GetUint32(flagExchangeFee)
				}
				if flags.Changed(flagReferralFee) {
					params.ReferralFee, _ = flags.GetUint32(flagReferralFee)
				}
				if flags.Changed(flagExchangeAccount) {
					params.ExchangeAccount, _ = flags.GetString(flagExchangeAccount)
				}
				if err := a.ExchangeKeeper.SetParams(ctx, params); err != nil {
					return err
				}
				return printJSON(cmd, params)
			})
		},
	}
	setCmd.Flags().Uint32(flagExchangeFee, types.DefaultExchangeFee, "protocol share of the fee, out of 10000")
	setCmd.Flags().Uint32(flagReferralFee, types.DefaultReferralFee, "referral share of the fee, out of 10000")
	setCmd.Flags().String(flagExchangeAccount, types.DefaultExchangeAccount, "account receiving protocol fee shares")

	cmd.AddCommand(setCmd)
	return cmd
}

func parsePoolID(s string) (uint64, error) {
	poolID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool-id: %s (must be integer)", s)
	}
	return poolID, nil
}

func parseAmount(name, s string) (math.Uint, error) {
	amount, err := math.ParseUint(s)
	if err != nil {
		return math.Uint{}, fmt.Errorf("invalid %s: %s (must be non-negative integer)", name, s)
	}
	return amount, nil
}

func parseAmounts(values []string) ([]math.Uint, error) {
	amounts := make([]math.Uint, len(values))
	for i, v := range values {
		amount, err := parseAmount(fmt.Sprintf("amount %d", i), strings.TrimSpace(v))
		if err != nil {
			return nil, err
		}
		amounts[i] = amount
	}
	return amounts, nil
}

// minAmountsFlag returns nil when the flag is unset.
func minAmountsFlag(cmd *cobra.Command) ([]math.Uint, error) {
	raw, _ := cmd.Flags().GetString(flagMinAmounts)
	if raw == "" {
		return nil, nil
	}
	return parseAmounts(strings.Split(raw, ","))
}

// parseRoute turns pool-id:token-in:token-out hops into swap actions. Only
// the first action carries an input amount.
func parseRoute(hops []string, amountIn, minAmountOut math.Uint) ([]types.SwapAction, error) {
	actions := make([]types.SwapAction, 0, len(hops))
	for i, hop := range hops {
		parts := strings.Split(hop, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid hop %q, want pool-id:token-in:token-out", hop)
		}
		poolID, err := parsePoolID(parts[0])
		if err != nil {
			return nil, err
		}
		action := types.SwapAction{
			PoolID:       poolID,
			TokenIn:      parts[1],
			TokenOut:     parts[2],
			MinAmountOut: math.ZeroUint(),
		}
		if i == 0 {
			in := amountIn
			action.AmountIn = &in
		}
		if i == len(hops)-1 {
			action.MinAmountOut = minAmountOut
		}
		if err := action.ValidateBasic(); err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}
