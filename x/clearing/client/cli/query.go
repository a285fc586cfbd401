package cli

import (
	"github.com/spf13/cobra"

	"github.com/gix-network/gcam/x/clearing/types"
)

// GetQueryCmd returns the cli query commands for the clearing module
func GetQueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying commands for the clearing engine",
		SuggestionsMinimumDistance: 2,
	}

	queryCmd.AddCommand(
		GetCmdQueryStats(),
		GetCmdQueryProviders(),
		GetCmdQueryRoutes(),
	)

	return queryCmd
}

// GetCmdQueryStats returns the command to query auction statistics
func GetCmdQueryStats() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Query cumulative auction statistics",
		Long: `Query total auctions, matches, unmatched attempts, volume and the
per-precision and per-lane match breakdowns.

Example:
  $ gcamd query stats --node localhost:50052`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cleanup, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.GetAuctionStats(ctx, &types.GetAuctionStatsRequest{})
			if err != nil {
				return err
			}
			return printProto(cmd, res)
		},
	}

	AddConnectionFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryProviders returns the command to list providers
func GetCmdQueryProviders() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List compute providers with capacity and utilization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cleanup, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.ListProviders(ctx, &types.ListProvidersRequest{})
			if err != nil {
				return err
			}
			return printProto(cmd, res)
		},
	}

	AddConnectionFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryRoutes returns the command to list routes
func GetCmdQueryRoutes() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List network routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ctx, cleanup, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.ListRoutes(ctx, &types.ListRoutesRequest{})
			if err != nil {
				return err
			}
			return printProto(cmd, res)
		},
	}

	AddConnectionFlagsToCmd(cmd)
	return cmd
}
