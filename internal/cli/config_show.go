package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/poupaenergia/poupa/internal/config"
)

// NewConfigShowCmd creates "config show", which prints the effective
// configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			w := cmd.OutOrStdout()
			if path := cfg.ConfigPath(); path != "" {
				fmt.Fprintf(w, "# %s\n", path)
			}
			if dir := config.GetResolvedProjectDir(); dir != "" {
				fmt.Fprintf(w, "# project: %s\n", dir)
			}
			_, err = w.Write(data)
			return err
		},
	}
}
