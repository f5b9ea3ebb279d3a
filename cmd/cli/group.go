package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	core "governedchain/core"
)

// addressList splits a comma-separated list of hex addresses.
func addressList(raw string) ([]core.Address, error) {
	if raw == "" {
		return nil, nil
	}
	var out []core.Address
	for _, part := range strings.Split(raw, ",") {
		a, err := daoParseAddr(part)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage DAO groups, roles, and memberships",
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name> <partition> <leader> [members-comma-separated]",
	Short: "Create a new group",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		leader, err := daoParseAddr(args[2])
		if err != nil {
			return err
		}
		var members []core.GroupMember
		if len(args) == 4 {
			addrs, err := addressList(args[3])
			if err != nil {
				return err
			}
			for _, a := range addrs {
				members = append(members, core.GroupMember{Account: a})
			}
		}
		return activeDAO().HandleGroupAdd(core.GroupAddInput{
			Name:          args[0],
			PartitionName: args[1],
			Leader:        leader,
			Members:       members,
		})
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a group entirely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return activeDAO().HandleGroupRemove(args[0])
	},
}

var groupAddMembersCmd = &cobra.Command{
	Use:   "add-members <name> <members-comma-separated>",
	Short: "Add members to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addrs, err := addressList(args[1])
		if err != nil {
			return err
		}
		var members []core.GroupMember
		for _, a := range addrs {
			members = append(members, core.GroupMember{Account: a})
		}
		return activeDAO().HandleGroupAddMembers(args[0], members, time.Now().Unix())
	},
}

var groupRemoveMembersCmd = &cobra.Command{
	Use:   "remove-members <name> <members-comma-separated>",
	Short: "Remove members from a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addrs, err := addressList(args[1])
		if err != nil {
			return err
		}
		return activeDAO().HandleGroupRemoveMembers(args[0], addrs)
	},
}

var groupRemoveRolesCmd = &cobra.Command{
	Use:   "remove-roles <name> <role>",
	Short: "Remove a role from a group entirely",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return activeDAO().HandleGroupRemoveRoles(args[0], args[1])
	},
}

var groupRemoveMemberRolesCmd = &cobra.Command{
	Use:   "remove-member-roles <name> <account>",
	Short: "Strip all role assignments from one member of a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := daoParseAddr(args[1])
		if err != nil {
			return err
		}
		return activeDAO().HandleGroupRemoveMemberRoles(args[0], account)
	},
}

var userRoleAddCmd = &cobra.Command{
	Use:   "role-add <group> <account> <role>",
	Short: "Grant a role to an account within a group",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := daoParseAddr(args[1])
		if err != nil {
			return err
		}
		return activeDAO().HandleUserRoleAdd(args[0], account, args[2])
	},
}

var userRoleRemoveCmd = &cobra.Command{
	Use:   "role-remove <group> <account> <role>",
	Short: "Revoke a role from an account within a group",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := daoParseAddr(args[1])
		if err != nil {
			return err
		}
		return activeDAO().HandleUserRoleRemove(args[0], account, args[2])
	},
}

func init() {
	groupCmd.AddCommand(
		groupAddCmd, groupRemoveCmd,
		groupAddMembersCmd, groupRemoveMembersCmd,
		groupRemoveRolesCmd, groupRemoveMemberRolesCmd,
		userRoleAddCmd, userRoleRemoveCmd,
	)
}

// GroupCmd is exported for index.go.
var GroupCmd = groupCmd
