// Package cmd 提供 msts 命令行
package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"msts/internal/config"
	coreerrors "msts/internal/core/errors"
	corelog "msts/internal/core/log"
	"msts/internal/version"
)

// rootOptions 全局标志
type rootOptions struct {
	verbose    int
	color      bool
	noColor    bool
	configPath string

	colorMode corelog.ColorMode
}

// NewRootCommand 创建根命令及全部子命令
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "msts",
		Short: "Minecraft Status Tracking Server",
		Long: `Minecraft Status Tracking Server.

The configuration file is resolved from -c/--config, then the MSTS_CONFIG_PATH
environment variable, then msts.toml in the working directory. A missing file
is created with a random administrator account and signing key.

Quick Start:
  msts serve                Start the HTTP server
  msts config show          Print the configuration with secrets masked
  msts token issue          Issue an access token for scripting`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.apply(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbose, "verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	flags.BoolVar(&opts.color, "color", false, "Force colored output")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (sets "+config.EnvConfigPath+")")
	rootCmd.MarkFlagsMutuallyExclusive("color", "no-color")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newTokenCommand(opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute 执行根命令
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: main goroutine panic recovered: %v", r)
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(debug.Stack()))
			os.Exit(2)
		}
	}()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// reportError 输出命令错误，配置错误额外提示文件位置
func reportError(w io.Writer, err error) {
	out := NewOutput(w)
	out.Error("%v", err)
	if !coreerrors.IsConfigError(err) {
		return
	}
	if path, perr := config.ResolvePath(); perr == nil && path != "" {
		out.Info("Fix %s, or remove it to generate a new one on the next start", path)
	}
}

// apply 处理全局标志：着色模式与配置路径
func (o *rootOptions) apply(cmd *cobra.Command) error {
	switch {
	case o.color:
		o.colorMode = corelog.ColorAlways
	case o.noColor:
		o.colorMode = corelog.ColorNever
	default:
		o.colorMode = corelog.ColorAuto
	}
	color.NoColor = !o.useColor(cmd.ErrOrStderr())

	if o.configPath != "" {
		if err := os.Setenv(config.EnvConfigPath, o.configPath); err != nil {
			return fmt.Errorf("set %s: %w", config.EnvConfigPath, err)
		}
	}
	return nil
}

// useColor 根据着色模式判断 w 是否输出颜色
func (o *rootOptions) useColor(w io.Writer) bool {
	switch o.colorMode {
	case corelog.ColorAlways:
		return true
	case corelog.ColorNever:
		return false
	}
	return corelog.IsTerminal(w)
}

// bootstrapLogger 读取配置前使用的日志，只受命令行标志影响
func (o *rootOptions) bootstrapLogger() (corelog.Logger, io.Closer, error) {
	return corelog.Configure(corelog.Options{
		Verbosity: o.verbose,
		Color:     o.colorMode,
	})
}

// openConfig 加载配置，不存在时生成并提示
func (o *rootOptions) openConfig(cmd *cobra.Command) (*config.Config, string, error) {
	logger, closer, err := o.bootstrapLogger()
	if err != nil {
		return nil, "", err
	}
	defer closer.Close()

	store := config.NewStore(config.StoreOptions{
		Resolver: config.DefaultPathResolver(),
		Logger:   logger,
	})
	path, err := store.Path()
	if err != nil {
		return nil, "", err
	}
	cfg, created, err := store.Open()
	if err != nil {
		return nil, "", err
	}
	if created {
		out := NewOutput(cmd.ErrOrStderr())
		out.Success("Created configuration file %s", path)
		out.KeyValue("Administrator", cfg.Admin.Name)
		out.Info("The generated password is stored in the configuration file")
	}
	return cfg, path, nil
}
