package config

import (
	"github.com/go-joker/joker/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage joker configuration",
		Long: "View and modify persistent joker settings.\n\n" +
			"Configuration is stored at ~/.config/joker/config.yaml. Every key can\n" +
			"also be overridden per invocation through a JOKER_-prefixed environment\n" +
			"variable (JOKER_LOG_LEVEL, JOKER_BASE_URL, and so on).\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
