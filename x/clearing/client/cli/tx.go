package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gix-network/gcam/x/clearing/types"
)

// GetTxCmd returns the commands that submit work to the clearing engine
func GetTxCmd() *cobra.Command {
	txCmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Submit jobs to the clearing engine",
		SuggestionsMinimumDistance: 2,
	}

	txCmd.AddCommand(
		GetCmdRunAuction(),
		GetCmdSubmitEnvelope(),
	)

	return txCmd
}

// GetCmdRunAuction returns the command to run an auction for one job
func GetCmdRunAuction() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-auction [precision] [kv-cache-seq-len]",
		Short: "Run an auction for a job",
		Long: `Run an auction for a job built from the arguments, or read from --job-file.

Example:
  $ gcamd tx run-auction BF16 4096 --model llama-70b --priority 150
  $ gcamd tx run-auction --job-file job.json`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := jobPayloadFromCmd(cmd, args)
			if err != nil {
				return err
			}
			priority, err := cmd.Flags().GetUint32(FlagPriority)
			if err != nil {
				return err
			}

			client, ctx, cleanup, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.RunAuction(ctx, &types.RunAuctionRequest{Job: payload, Priority: priority})
			if err != nil {
				return err
			}
			return printProto(cmd, res)
		},
	}

	addJobFlags(cmd)
	cmd.Flags().String(FlagJobFile, "", "read the JSON job from this file")
	AddConnectionFlagsToCmd(cmd)
	return cmd
}

// GetCmdSubmitEnvelope returns the command to submit an envelope
func GetCmdSubmitEnvelope() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-envelope [precision] [kv-cache-seq-len]",
		Short: "Wrap a job in an envelope and submit it",
		Long: `Wrap a job built from the arguments in a schema version 3 envelope, or
read a complete envelope from --envelope-file.

Example:
  $ gcamd tx submit-envelope INT8 2048 --priority 200 --ttl 5m --source-slp slp-us-east-1`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bz []byte
			if path, _ := cmd.Flags().GetString(FlagEnvelopeFile); path != "" {
				var err error
				if bz, err = os.ReadFile(path); err != nil {
					return err
				}
			} else {
				env, err := envelopeFromCmd(cmd, args)
				if err != nil {
					return err
				}
				if bz, err = env.Marshal(); err != nil {
					return err
				}
			}

			client, ctx, cleanup, err := clientFromCmd(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := client.SubmitEnvelope(ctx, &types.SubmitEnvelopeRequest{Envelope: bz})
			if err != nil {
				return err
			}
			return printProto(cmd, res)
		},
	}

	addJobFlags(cmd)
	cmd.Flags().Duration(FlagTTL, 0, "envelope time to live; zero means no expiry")
	cmd.Flags().String(FlagSourceSLP, "", "originating SLP")
	cmd.Flags().String(FlagTargetLane, "", "requested lane")
	cmd.Flags().String(FlagEnvelopeFile, "", "read the JSON envelope from this file")
	AddConnectionFlagsToCmd(cmd)
	return cmd
}

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagModel, "", "model identifier")
	cmd.Flags().Uint32(FlagBatchSize, 1, "batch size")
	cmd.Flags().String(FlagJobID, "", "job UUID; random when empty")
	cmd.Flags().Uint32(FlagPriority, 0, "priority hint 0-255")
}

// JobFromArgs builds a job from positional arguments and job flags.
func JobFromArgs(cmd *cobra.Command, args []string) (types.Job, error) {
	if len(args) != 2 {
		return types.Job{}, fmt.Errorf("expected [precision] [kv-cache-seq-len]")
	}
	precision, err := types.ParsePrecision(strings.ToUpper(strings.TrimSpace(args[0])))
	if err != nil {
		return types.Job{}, err
	}
	seqLen, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return types.Job{}, fmt.Errorf("invalid kv-cache-seq-len %q: %w", args[1], err)
	}

	model, _ := cmd.Flags().GetString(FlagModel)
	job := types.NewJob(model, precision, uint32(seqLen))

	if job.BatchSize, err = cmd.Flags().GetUint32(FlagBatchSize); err != nil {
		return types.Job{}, err
	}
	if raw, _ := cmd.Flags().GetString(FlagJobID); raw != "" {
		if job.JobID, err = uuid.Parse(raw); err != nil {
			return types.Job{}, fmt.Errorf("invalid job id: %w", err)
		}
	}
	return job, job.ValidateBasic()
}

func jobPayloadFromCmd(cmd *cobra.Command, args []string) ([]byte, error) {
	if path, _ := cmd.Flags().GetString(FlagJobFile); path != "" {
		return os.ReadFile(path)
	}
	job, err := JobFromArgs(cmd, args)
	if err != nil {
		return nil, err
	}
	return job.Marshal()
}

func envelopeFromCmd(cmd *cobra.Command, args []string) (types.Envelope, error) {
	job, err := JobFromArgs(cmd, args)
	if err != nil {
		return types.Envelope{}, err
	}
	priority, err := cmd.Flags().GetUint32(FlagPriority)
	if err != nil {
		return types.Envelope{}, err
	}
	p, err := types.ValidatePriority(priority)
	if err != nil {
		return types.Envelope{}, err
	}

	now := time.Now()
	env, err := types.NewEnvelopeFromJob(job, p, now)
	if err != nil {
		return types.Envelope{}, err
	}
	if ttl, _ := cmd.Flags().GetDuration(FlagTTL); ttl > 0 {
		env.Meta = env.Meta.WithTTL(ttl)
	}
	env.Meta.SourceSLP, _ = cmd.Flags().GetString(FlagSourceSLP)
	env.Meta.TargetLane, _ = cmd.Flags().GetString(FlagTargetLane)
	return env, nil
}
