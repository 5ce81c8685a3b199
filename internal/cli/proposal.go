package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poupaenergia/poupa/internal/catalog"
	"github.com/poupaenergia/poupa/internal/config"
	"github.com/poupaenergia/poupa/internal/proposal"
)

// newProposalCmd creates the proposal command group.
func newProposalCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "proposal", Short: "Proposal request commands"}
	cmd.AddCommand(NewProposalRequestCmd())
	return cmd
}

// ProposalParams holds the flags of "proposal request". Exported for testing.
type ProposalParams struct {
	Service  string
	Provider string
	Name     string
	Email    string
	Phone    string
	Output   string
}

// NewProposalRequestCmd creates "proposal request". Nothing is sent
// anywhere: the command validates the contact details and prints the
// acknowledgement a visitor would see.
func NewProposalRequestCmd() *cobra.Command {
	var params ProposalParams

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a personalised proposal",
		Example: `  poupa proposal request --service energy --provider edp --email ana@example.pt
  poupa proposal request --service telecom --provider meo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProposalRequest(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Service, "service", string(catalog.ServiceEnergy), "service: energy or telecom")
	cmd.Flags().StringVar(&params.Provider, "provider", "", "current provider ID")
	cmd.Flags().StringVar(&params.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&params.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&params.Phone, "phone", "", "contact phone number")
	cmd.Flags().StringVarP(&params.Output, "output", "o", config.FormatTable, "output format: table, json")

	return cmd
}

func runProposalRequest(cmd *cobra.Command, params ProposalParams) error {
	service, err := catalog.ParseService(params.Service)
	if err != nil {
		return err
	}

	ack, err := proposal.NewAcknowledger().Acknowledge(cmd.Context(), proposal.Request{
		Service:  service,
		Provider: params.Provider,
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
	})
	if err != nil {
		return err
	}

	switch params.Output {
	case config.FormatJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ack)
	case config.FormatTable:
	default:
		return fmt.Errorf("unsupported output format: %s", params.Output)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, ack.Message)
	fmt.Fprintf(w, "Reference: %s\n", ack.Reference)
	if ack.Provider != nil {
		fmt.Fprintf(w, "Current provider: %s\n", ack.Provider.Name)
	}
	return nil
}
