package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	"github.com/kevinluo6191/XDNMB/internal/middleware"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "xdnmb",
		Short:         "XDNMB forum client data layer and local JSON bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 1. 加载配置 (Viper)
			if err := config.Init(configPath); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// 2. 初始化 Logger
			if err := logger.Init(&config.Get().Logging); err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yaml")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newTokenCommand())
	return rootCmd
}

func newTokenCommand() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue a management token for /api/mgt",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := middleware.GenerateToken(subject, middleware.ScopeManage, &config.Get().JWT)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "local", "token subject")
	return cmd
}
