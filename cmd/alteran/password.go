package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alteran/internal/pkg/crypto"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "生成 auth.admin_password_hash 使用的 bcrypt 哈希",
	Long: `生成管理员密码的 bcrypt 哈希, 写入配置项 auth.admin_password_hash 后可不再保存明文密码。
未传参数时从标准输入读取一行。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("读取密码失败: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return errors.New("密码不能为空")
		}

		hash, err := crypto.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
