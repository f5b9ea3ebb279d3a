package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Read-only views over DAO state",
}

func viewSubcommand(use, short string, run func(cmd *cobra.Command, args []string) error, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{Use: use, Short: short, Args: args, RunE: run}
}

func init() {
	viewCmd.AddCommand(
		viewSubcommand("proposal <id>", "Show one proposal", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			p, ok := activeDAO().ViewProposal(id)
			if !ok {
				return fmt.Errorf("proposal %d not found", id)
			}
			return printJSON(cmd, p)
		}, cobra.ExactArgs(1)),

		viewSubcommand("proposals <from> <limit>", "List proposals starting at an id", func(cmd *cobra.Command, args []string) error {
			from, err := parseUint(args[0])
			if err != nil {
				return err
			}
			limit, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, activeDAO().ViewProposals(from, limit))
		}, cobra.ExactArgs(2)),

		viewSubcommand("dao-settings", "Show DAO-level settings", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewDAOSettings())
		}, cobra.NoArgs),

		viewSubcommand("wf-template <code>", "Show one workflow template", func(cmd *cobra.Command, args []string) error {
			t, ok := activeDAO().ViewTemplate(args[0])
			if !ok {
				return fmt.Errorf("template %q not found", args[0])
			}
			return printJSON(cmd, t)
		}, cobra.ExactArgs(1)),

		viewSubcommand("wf-templates", "List every workflow template", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewTemplates())
		}, cobra.NoArgs),

		viewSubcommand("wf-instance <proposal-id>", "Show a proposal's workflow instance", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			i, ok := activeDAO().ViewInstance(id)
			if !ok {
				return fmt.Errorf("instance for proposal %d not found", id)
			}
			return printJSON(cmd, i)
		}, cobra.ExactArgs(1)),

		viewSubcommand("wf-propose-settings <proposal-id>", "Show a proposal's propose-time settings", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			s, ok := activeDAO().ViewProposeSettings(id)
			if !ok {
				return fmt.Errorf("propose settings for proposal %d not found", id)
			}
			return printJSON(cmd, s)
		}, cobra.ExactArgs(1)),

		viewSubcommand("groups", "List every group name", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewGroups())
		}, cobra.NoArgs),

		viewSubcommand("group <name>", "Show one group", func(cmd *cobra.Command, args []string) error {
			g, ok := activeDAO().ViewGroup(args[0])
			if !ok {
				return fmt.Errorf("group %q not found", args[0])
			}
			return printJSON(cmd, g)
		}, cobra.ExactArgs(1)),

		viewSubcommand("group-members <name>", "List one group's members", func(cmd *cobra.Command, args []string) error {
			m, ok := activeDAO().ViewGroupMembers(args[0])
			if !ok {
				return fmt.Errorf("group %q not found", args[0])
			}
			return printJSON(cmd, m)
		}, cobra.ExactArgs(1)),

		viewSubcommand("tags <category>", "List one tag category's key/value pairs", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewTags(args[0]))
		}, cobra.ExactArgs(1)),

		viewSubcommand("storage-bucket-data <proposal-id> <key>", "Read one key from a proposal's instance bucket", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			v, ok := activeDAO().ViewStorageBucketData(id, args[1])
			if !ok {
				return fmt.Errorf("key %q not found in proposal %d's bucket", args[1], id)
			}
			return printJSON(cmd, v)
		}, cobra.ExactArgs(2)),

		viewSubcommand("storage-bucket-all <proposal-id>", "Read every key in a proposal's instance bucket", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, activeDAO().ViewStorageBucketAll(id))
		}, cobra.ExactArgs(1)),

		viewSubcommand("storage-buckets", "List every proposal id with an instance bucket", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewStorageBuckets())
		}, cobra.NoArgs),

		viewSubcommand("reward <id>", "Show one reward", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			r, ok := activeDAO().ViewReward(id)
			if !ok {
				return fmt.Errorf("reward %d not found", id)
			}
			return printJSON(cmd, r)
		}, cobra.ExactArgs(1)),

		viewSubcommand("wallet <account>", "Show one account's wallet", func(cmd *cobra.Command, args []string) error {
			a, err := daoParseAddr(args[0])
			if err != nil {
				return err
			}
			w, ok := activeDAO().ViewWallet(a)
			if !ok {
				return fmt.Errorf("wallet for %s not found", args[0])
			}
			return printJSON(cmd, w)
		}, cobra.ExactArgs(1)),

		viewSubcommand("user-roles <account>", "Show one account's group -> roles map", func(cmd *cobra.Command, args []string) error {
			a, err := daoParseAddr(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, activeDAO().ViewUserRoles(a))
		}, cobra.ExactArgs(1)),

		viewSubcommand("partition <name>", "Show one treasury partition", func(cmd *cobra.Command, args []string) error {
			p, ok := activeDAO().ViewPartition(args[0])
			if !ok {
				return fmt.Errorf("partition %q not found", args[0])
			}
			return printJSON(cmd, p)
		}, cobra.ExactArgs(1)),

		viewSubcommand("partition-list", "List every treasury partition name", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewPartitionList())
		}, cobra.NoArgs),

		viewSubcommand("statistics", "Show aggregate DAO statistics", func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, activeDAO().ViewStatistics())
		}, cobra.NoArgs),

		viewSubcommand("wf-log <proposal-id>", "Show the workflow event log", func(cmd *cobra.Command, args []string) error {
			id, err := parseUint(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, activeDAO().ViewWorkflowLog(id))
		}, cobra.ExactArgs(1)),
	)
}

// ViewCmd is exported for index.go.
var ViewCmd = viewCmd
