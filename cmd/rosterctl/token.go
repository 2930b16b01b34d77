package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/jwt"
)

// 正式环境的 Token 由外部身份服务签发，此命令用于联调与压测
func newTokenCmd(env *cliEnv) *cobra.Command {
	var userID, role, venueID string

	c := &cobra.Command{
		Use:   "token",
		Short: "签发 Access Token",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case jwt.RoleAdmin, jwt.RoleManager, jwt.RoleEmployee:
			default:
				return fmt.Errorf("未知角色 %q", role)
			}
			if role != jwt.RoleAdmin && venueID == "" {
				return fmt.Errorf("非管理员角色必须指定 --venue")
			}

			cfg, _, err := env.load()
			if err != nil {
				return err
			}
			token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(userID, role, venueID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().StringVar(&userID, "user", "", "员工 / 用户 ID")
	c.Flags().StringVar(&role, "role", jwt.RoleEmployee, "角色：admin | manager | employee")
	c.Flags().StringVar(&venueID, "venue", "", "所属门店 ID")
	_ = c.MarkFlagRequired("user")
	return c
}
