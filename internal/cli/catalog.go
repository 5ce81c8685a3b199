package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/savings"
)

// newCatalogCmd creates the catalog command group.
func newCatalogCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the services, providers and options on offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalog(cmd, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", config.FormatTable, "output format: table, json")
	cmd.AddCommand(NewCatalogProvidersCmd())
	return cmd
}

func runCatalog(cmd *cobra.Command, output string) error {
	switch output {
	case config.FormatJSON:
		type serviceEntry struct {
			ID     catalog.Service `json:"id"`
			Offers []catalog.Offer `json:"offers"`
		}
		var services []serviceEntry
		for _, s := range catalog.Services() {
			services = append(services, serviceEntry{ID: s, Offers: catalog.Offers(s)})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"services":     services,
			"power_tiers":  savings.PowerTiers(),
			"panel_counts": savings.PanelCounts(),
		})
	case config.FormatTable:
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "SERVICE\tOFFER\tSTRATEGIES\tDESCRIPTION")
	for _, s := range catalog.Services() {
		for _, o := range catalog.Offers(s) {
			strategies := make([]string, 0, len(o.Strategies))
			for _, st := range o.Strategies {
				strategies = append(strategies, st.String())
			}
			if len(strategies) == 0 {
				strategies = append(strategies, "-")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s, o.Title, strings.Join(strategies, ","), o.Description)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	tiers := make([]string, 0, len(savings.PowerTiers()))
	for _, t := range savings.PowerTiers() {
		tiers = append(tiers, t.String())
	}
	panels := make([]string, 0, len(savings.PanelCounts()))
	for _, n := range savings.PanelCounts() {
		panels = append(panels, fmt.Sprint(n))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nContracted power tiers: %s\n", strings.Join(tiers, ", "))
	fmt.Fprintf(w, "Panel counts: %s\n", strings.Join(panels, ", "))
	return nil
}

// NewCatalogProvidersCmd creates "catalog providers".
func NewCatalogProvidersCmd() *cobra.Command {
	var (
		service string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the providers of a service",
		Example: `  poupa catalog providers --service energy
  poupa catalog providers --service telecom --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogProviders(cmd, service, output)
		},
	}
	cmd.Flags().StringVar(&service, "service", string(catalog.ServiceEnergy), "service: energy or telecom")
	cmd.Flags().StringVarP(&output, "output", "o", config.FormatTable, "output format: table, json")
	return cmd
}

func runCatalogProviders(cmd *cobra.Command, service, output string) error {
	s, err := catalog.ParseService(service)
	if err != nil {
		return err
	}
	providers, err := catalog.Providers(s)
	if err != nil {
		return err
	}

	switch output {
	case config.FormatJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(providers)
	case config.FormatTable:
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNAME")
	for _, p := range providers {
		fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	if s == catalog.ServiceTelecom {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", catalog.TelecomInstruction())
	}
	return nil
}
