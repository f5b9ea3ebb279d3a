package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	core "governedchain/core"
)

// daoParseAddr decodes a hex account id, matching the teacher's own helper
// of the same name (cmd/cli/dao.go).
func daoParseAddr(h string) (core.Address, error) {
	var a core.Address
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("invalid address")
	}
	copy(a[:], b)
	return a, nil
}

var daoCmd = &cobra.Command{
	Use:   "dao",
	Short: "Manage the DAO's proposal and voting lifecycle",
}

var proposalCreateCmd = &cobra.Command{
	Use:   "propose <template> <settings-idx> <creator> <deposit>",
	Short: "Create a new proposal against a stored template",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		creator, err := daoParseAddr(args[2])
		if err != nil {
			return err
		}
		deposit, ok := new(big.Int).SetString(args[3], 10)
		if !ok {
			return fmt.Errorf("invalid deposit amount %q", args[3])
		}
		p, err := activeDAO().ProposalCreate(args[0], idx, &core.ProposeSettings{}, creator, deposit, time.Now().Unix(), "")
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var proposalVoteCmd = &cobra.Command{
	Use:   "vote <proposal-id> <caller> <option> <option-count> <deposit>",
	Short: "Cast a vote on an in-progress proposal",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		caller, err := daoParseAddr(args[1])
		if err != nil {
			return err
		}
		option, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return err
		}
		optionCount, err := strconv.ParseUint(args[3], 10, 8)
		if err != nil {
			return err
		}
		deposit, ok := new(big.Int).SetString(args[4], 10)
		if !ok {
			return fmt.Errorf("invalid deposit amount %q", args[4])
		}
		return activeDAO().ProposalVote(id, caller, uint8(option), uint8(optionCount), deposit, time.Now().Unix())
	},
}

var proposalFinishCmd = &cobra.Command{
	Use:   "finish <proposal-id> <approve-option> <spam-option> <deposit> <forfeit-partition>",
	Short: "Finalize a proposal whose voting deadline has passed",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		approveOpt, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return err
		}
		spamOpt, err := strconv.ParseUint(args[2], 10, 8)
		if err != nil {
			return err
		}
		deposit, ok := new(big.Int).SetString(args[3], 10)
		if !ok {
			return fmt.Errorf("invalid deposit amount %q", args[3])
		}
		res, err := activeDAO().ProposalFinish(id, time.Now().Unix(), deposit, uint8(approveOpt), uint8(spamOpt), args[4])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	daoCmd.AddCommand(proposalCreateCmd, proposalVoteCmd, proposalFinishCmd)
}

// DAOCmd is exported for index.go, matching the teacher's RegisterRoutes
// convention.
var DAOCmd = daoCmd
