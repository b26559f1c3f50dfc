package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"msts/internal/auth"
	"msts/internal/config"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
		Long: `Inspect the configuration file.

Subcommands:
  path            Print the resolved configuration file path
  show            Print the configuration with secrets masked
  hash-password   Print a bcrypt hash for admin.password`,
	}

	configCmd.AddCommand(newConfigPathCommand())
	configCmd.AddCommand(newConfigShowCommand(root))
	configCmd.AddCommand(newConfigHashPasswordCommand())
	return configCmd
}

// newConfigPathCommand 输出解析后的配置文件路径，不创建文件
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigShowCommand(root *rootOptions) *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration with secrets masked",
		Long: `Print the active configuration. The file is created first if it does
not exist. Password and signing key are always masked.

Example:
  msts config show
  msts config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.openConfig(cmd)
			if err != nil {
				return err
			}
			return config.Render(cmd.OutOrStdout(), cfg, format)
		},
	}

	showCmd.Flags().StringVarP(&format, "output", "o", config.RenderTOML, "Output format: toml|yaml|json")
	return showCmd
}

func newConfigHashPasswordCommand() *cobra.Command {
	var cost int

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for admin.password",
		Long: `Read a password from the terminal (without echo) or from stdin and print
its bcrypt hash. Store the hash in admin.password and set
admin.password_scheme = "bcrypt".

Example:
  msts config hash-password
  echo -n 'secret' | msts config hash-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	hashCmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (0 uses the library default)")
	return hashCmd
}

// readPassword 终端下关闭回显读取，否则读取第一行
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return nonEmpty(string(raw))
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return nonEmpty(strings.TrimRight(line, "\r\n"))
}

func nonEmpty(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
