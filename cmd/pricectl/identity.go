package main

import (
	"fmt"
	"strings"

	identityapp "github.com/erp/productext/internal/application/identity"
	"github.com/erp/productext/internal/domain/identity"
	"github.com/spf13/cobra"
)

type accessOutput struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Model  string   `json:"model"`
	Group  string   `json:"group,omitempty"`
	Modes  []string `json:"modes"`
	Tenant string   `json:"tenant_id"`
}

func newUserCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their groups",
	}
	cmd.AddCommand(newUserCreateCmd(withApp), newUserSetGroupsCmd(withApp))
	return cmd
}

func newUserCreateCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant    string
		company   string
		password  string
		superuser bool
		groups    []string
	)

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Example: `  pricectl user create manager --tenant $TENANT --password secret123 \
    --group ` + identity.GroupProductsManagement,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			companyID, err := parseUUIDFlag("company", company)
			if err != nil {
				return err
			}
			info, err := a.users.Create(cmd.Context(), identityapp.CreateUserInput{
				TenantID:    tenantID,
				CompanyID:   companyID,
				Username:    args[0],
				Password:    password,
				IsSuperuser: superuser,
				Groups:      groups,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&company, "company", "", "Current company of the user")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "Bypass access rules")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group to add (repeatable)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserSetGroupsCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant string
		groups []string
	)

	cmd := &cobra.Command{
		Use:   "set-groups <user-id>",
		Short: "Replace the groups of a user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			userID, err := parseUUIDFlag("user-id", args[0])
			if err != nil {
				return err
			}
			info, err := a.users.SetGroups(cmd.Context(), tenantID, userID, groups)
			if err != nil {
				return err
			}
			return writeJSON(cmd, info)
		}),
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group (repeatable; none clears all groups)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func newAccessCmd(withApp func(func(*cobra.Command, *app, []string) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		tenant string
		group  string
		modes  []string
	)

	grant := &cobra.Command{
		Use:   "grant <model>",
		Short: "Grant access modes on a model to a group",
		Long: `Stores a model access rule. Without --group the rule applies to every user.
Modes are read, write, create and unlink.`,
		Example: "  pricectl access grant product.template --tenant $TENANT --mode read",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			tenantID, err := parseUUIDFlag("tenant", tenant)
			if err != nil {
				return err
			}
			accessModes := make([]identity.AccessMode, 0, len(modes))
			for _, m := range modes {
				accessModes = append(accessModes, identity.AccessMode(strings.ToLower(strings.TrimSpace(m))))
			}
			access, err := a.access.Grant(cmd.Context(), identityapp.GrantAccessInput{
				TenantID: tenantID,
				Model:    args[0],
				Group:    group,
				Modes:    accessModes,
			})
			if err != nil {
				return fmt.Errorf("grant access on %s: %w", args[0], err)
			}
			return writeJSON(cmd, toAccessOutput(access))
		}),
	}
	grant.Flags().StringVar(&tenant, "tenant", "", "Tenant ID")
	grant.Flags().StringVar(&group, "group", "", "Group the rule applies to")
	grant.Flags().StringSliceVar(&modes, "mode", []string{string(identity.AccessModeRead)}, "Access mode (repeatable)")
	_ = grant.MarkFlagRequired("tenant")

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Manage model access rules",
	}
	cmd.AddCommand(grant)
	return cmd
}

func toAccessOutput(a *identity.ModelAccess) accessOutput {
	out := accessOutput{
		ID:     a.ID.String(),
		Name:   a.Name,
		Model:  a.Model,
		Group:  a.Group,
		Tenant: a.TenantID.String(),
	}
	for _, mode := range []identity.AccessMode{identity.AccessModeRead, identity.AccessModeWrite, identity.AccessModeCreate, identity.AccessModeUnlink} {
		if a.Grants(mode) {
			out.Modes = append(out.Modes, string(mode))
		}
	}
	return out
}
