package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	core "governedchain/core"
)

// actionInputsFromJSON decodes a JSON array like
//   [{"present":true,"fields":{"amount":{"kind":2,"u64":5}}}, {"present":false}]
// into the engine's []core.ActionInput, matching the teacher's convention of
// taking structured data in from a single JSON positional argument
// (cmd/cli/dao.go's stake/escrow commands do the same for amounts).
func actionInputsFromJSON(raw string) ([]core.ActionInput, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var inputs []core.ActionInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		return nil, fmt.Errorf("decode action inputs: %w", err)
	}
	return inputs, nil
}

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Drive a proposal's workflow instance through its activities",
}

var workflowRunActivityCmd = &cobra.Command{
	Use:   "run-activity <proposal-id> <activity-code> <caller> <action-inputs-json>",
	Short: "Execute one activity of a proposal's workflow instance",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		caller, err := daoParseAddr(args[2])
		if err != nil {
			return err
		}
		inputs, err := actionInputsFromJSON(args[3])
		if err != nil {
			return err
		}
		return activeDAO().WorkflowRunActivity(core.RunActivityRequest{
			ProposalID:     id,
			TargetActivity: args[1],
			ActionInputs:   inputs,
			Invoker:        caller,
			Now:            time.Now().Unix(),
		})
	},
}

var workflowFinishCmd = &cobra.Command{
	Use:   "finish <proposal-id>",
	Short: "Mark a workflow instance as finished once it reached a terminal activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return activeDAO().WorkflowFinish(id)
	},
}

var workflowDeliverCmd = &cobra.Command{
	Use:   "deliver <proposal-id> <call-id> <success> <result-json>",
	Short: "Deliver a pending external-call callback to its waiting instance",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		callID, err := parseUint(args[1])
		if err != nil {
			return err
		}
		success := args[2] == "true"
		return activeDAO().DeliverCallback(id, core.CallbackResult{
			CallID:  callID,
			Success: success,
			Bytes:   []byte(args[3]),
		}, time.Now().Unix())
	},
}

func init() {
	workflowCmd.AddCommand(workflowRunActivityCmd, workflowFinishCmd, workflowDeliverCmd)
}

// WorkflowCmd is exported for index.go.
var WorkflowCmd = workflowCmd
