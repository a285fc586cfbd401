package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/protoadapt"

	"github.com/gix-network/gcam/x/clearing/types"
)

// Flag constants for clearing CLI commands
const (
	// Connection flags
	FlagNode    = "node"
	FlagTimeout = "timeout"

	// Job flags
	FlagModel     = "model"
	FlagBatchSize = "batch-size"
	FlagJobID     = "job-id"
	FlagJobFile   = "job-file"
	FlagPriority  = "priority"

	// Envelope flags
	FlagTTL          = "ttl"
	FlagSourceSLP    = "source-slp"
	FlagTargetLane   = "target-lane"
	FlagEnvelopeFile = "envelope-file"
)

// DefaultNodeTarget is the default gRPC address of a local node
const DefaultNodeTarget = "localhost:50052"

// AddConnectionFlagsToCmd adds the gRPC connection flags.
func AddConnectionFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().String(FlagNode, DefaultNodeTarget, "gRPC address of the gcamd node")
	cmd.Flags().Duration(FlagTimeout, 10*time.Second, "request timeout")
}

// clientFromCmd dials the node named by the --node flag.
func clientFromCmd(cmd *cobra.Command) (types.AuctionServiceClient, context.Context, func(), error) {
	target, err := cmd.Flags().GetString(FlagNode)
	if err != nil {
		return nil, nil, nil, err
	}
	timeout, err := cmd.Flags().GetDuration(FlagTimeout)
	if err != nil {
		return nil, nil, nil, err
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	cleanup := func() {
		cancel()
		_ = conn.Close()
	}
	return types.NewAuctionServiceClient(conn), ctx, cleanup, nil
}

// printProto writes msg as indented JSON.
func printProto(cmd *cobra.Command, msg protoadapt.MessageV1) error {
	bz, err := protojson.MarshalOptions{
		Multiline:       true,
		Indent:          "  ",
		EmitUnpopulated: true,
		UseProtoNames:   true,
	}.Marshal(protoadapt.MessageV2Of(msg))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
