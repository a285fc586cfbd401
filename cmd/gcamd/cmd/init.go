package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gix-network/gcam/app"
	"github.com/gix-network/gcam/x/clearing/types"
)

const (
	flagOverwrite  = "overwrite"
	flagDBBackend  = "db-backend"
	flagGRPCAddr   = "grpc-address"
	genesisRelPath = "config/genesis.json"
)

// InitCmd returns a command that writes the daemon configuration, the seed
// genesis file and the data directory under --home.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration, seed genesis, and data directory",
		Long: `Initialize gcamd's configuration files.

Example:
  gcamd init --home ~/.gcam --db-backend goleveldb
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeFromCmd(cmd)
			if err != nil {
				return err
			}
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			genFile := filepath.Join(home, genesisRelPath)
			if !overwrite && fileExists(genFile) {
				return fmt.Errorf("genesis.json file already exists: %v", genFile)
			}

			overrides := map[string]interface{}{"genesis.file": genesisRelPath}
			if backend, _ := cmd.Flags().GetString(flagDBBackend); backend != "" {
				overrides["clearing.db-backend"] = backend
			}
			if addr, _ := cmd.Flags().GetString(flagGRPCAddr); addr != "" {
				overrides["grpc.address"] = addr
			}

			cfgPath, err := app.WriteDefaultConfig(home, overwrite, overrides)
			if err != nil {
				return err
			}

			// an invalid config is removed again before genesis or data are written
			cfg, err := app.LoadConfig(home)
			if err != nil {
				_ = os.Remove(cfgPath)
				return err
			}

			if err := types.WriteGenesisFile(genFile, types.DefaultGenesis()); err != nil {
				return fmt.Errorf("failed to save genesis file: %w", err)
			}
			if err := os.MkdirAll(cfg.Clearing.DBDir, 0o750); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully initialized gcamd configuration\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", cfgPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Genesis: %s\n", genFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Data: %s\n", cfg.Clearing.DBDir)
			return nil
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "overwrite the existing config and genesis files")
	cmd.Flags().String(flagDBBackend, "", "state database backend (goleveldb or memdb)")
	cmd.Flags().String(flagGRPCAddr, "", "AuctionService listen address")

	return cmd
}

// ValidateGenesisCmd checks a seed genesis file. With no argument it checks the
// file named in the config.
func ValidateGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-genesis [file]",
		Short: "Validate a seed genesis file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				home, err := homeFromCmd(cmd)
				if err != nil {
					return err
				}
				cfg, err := app.LoadConfig(home)
				if err != nil {
					return err
				}
				if cfg.Genesis.File == "" {
					return fmt.Errorf("no genesis file configured in %s", app.ConfigPath(home))
				}
				path = cfg.Genesis.File
			}

			gs, err := types.LoadGenesisFile(path)
			if err != nil {
				return fmt.Errorf("error validating genesis file %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "File at %s is a valid genesis file (%d providers, %d routes)\n",
				path, len(gs.Providers), len(gs.Routes))
			return nil
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
