package commands

import (
	"strings"

	"github.com/leapstack-labs/vela/internal/cli/output"
	"github.com/leapstack-labs/vela/pkg/extensions"
	"github.com/spf13/cobra"
)

type extensionInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Provides    []string `json:"provides"`
}

// NewExtensionsCommand creates the extensions command.
func NewExtensionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "extensions",
		Aliases: []string{"ext"},
		Short:   "List available extensions",
		Long: `List every extension compiled into this binary, whether the current
configuration enables it, and the global names it defines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			infos, err := collectExtensions(cmdCtx, cmd)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}
			rows := make([][]any, len(infos))
			for i, info := range infos {
				enabled := ""
				if info.Enabled {
					enabled = "yes"
				}
				rows[i] = []any{info.Name, enabled, info.Description, strings.Join(info.Provides, ", ")}
			}
			r.Table([]string{"Name", "Enabled", "Description", "Provides"}, rows)
			return nil
		},
	}
}

func collectExtensions(cmdCtx *CommandContext, cmd *cobra.Command) ([]extensionInfo, error) {
	opts, err := cmdCtx.Cfg.ExtensionOptions(cmdCtx.Logger, cmd.OutOrStdout(), cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	// Listing must not touch the configured store file.
	opts.StorePath = ":memory:"

	enabled := make(map[string]bool, len(cmdCtx.Cfg.Extensions))
	for _, name := range cmdCtx.Cfg.Extensions {
		enabled[name] = true
	}

	names := extensions.Names()
	infos := make([]extensionInfo, 0, len(names))
	for _, name := range names {
		exts, err := extensions.Load([]string{name}, opts)
		if err != nil {
			return nil, err
		}
		provides, err := extensions.Provides(exts[0])
		closeErr := extensions.Close(exts)
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			cmdCtx.Logger.Warn("failed to close extension", "name", name, "error", closeErr)
		}
		infos = append(infos, extensionInfo{
			Name:        name,
			Description: extensions.Description(name),
			Enabled:     enabled[name],
			Provides:    provides,
		})
	}
	return infos, nil
}
