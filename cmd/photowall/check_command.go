package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photowall/internal/preflight"
	"photowall/internal/session"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, directories and notification endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("photowall check", colorize) {
				fmt.Fprintln(out, line)
			}

			failed := 0
			if _, err := session.OptionsFromConfig(cfg); err != nil {
				failed++
				fmt.Fprintln(out, renderStatusLine("Configuration", statusError, err.Error(), colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Configuration", statusOK, ctx.configPath, colorize))
			}

			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				if !result.Passed {
					failed++
				}
				fmt.Fprintln(out, preflightStatus(result, colorize))
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(out, renderStatusLine("ntfy", statusWarn, "not configured", colorize))
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
