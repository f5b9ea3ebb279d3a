package cli

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	core "governedchain/core"
)

var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Inspect and manage treasury partitions",
}

var treasuryAddPartitionCmd = &cobra.Command{
	Use:   "add-partition <name>",
	Short: "Create a new, empty treasury partition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return activeDAO().HandleTreasuryAddPartition(args[0])
	},
}

var treasuryAddAssetCmd = &cobra.Command{
	Use:   "add-asset <partition> <asset-kind:native|ft|nft> <contract> <token-id> <amount>",
	Short: "Credit a partition with a native, fungible, or non-fungible asset amount",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind core.AssetKind
		switch args[1] {
		case "native":
			kind = core.AssetNative
		case "ft":
			kind = core.AssetFT
		case "nft":
			kind = core.AssetNFT
		default:
			return fmt.Errorf("unknown asset kind %q", args[1])
		}
		var contract core.Address
		if args[2] != "" {
			var err error
			contract, err = daoParseAddr(args[2])
			if err != nil {
				return err
			}
		}
		amount, ok := new(big.Int).SetString(args[4], 10)
		if !ok {
			return fmt.Errorf("invalid amount %q", args[4])
		}
		asset := core.AssetID{Kind: kind, Contract: contract, TokenID: args[3]}
		return activeDAO().HandlePartitionAddAssetAmount(args[0], asset, core.U128Value(amount))
	},
}

func init() {
	treasuryCmd.AddCommand(treasuryAddPartitionCmd, treasuryAddAssetCmd)
}

// TreasuryCmd is exported for index.go.
var TreasuryCmd = treasuryCmd
