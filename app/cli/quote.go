package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"brandeduk-store/app"
	"brandeduk-store/models"
)

func newQuoteCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview and submit quote requests",
	}

	cmd.AddCommand(newQuotePreviewCmd(a))
	cmd.AddCommand(newQuoteSubmitCmd(a))
	return cmd
}

func quoteFlags(cmd *cobra.Command, customer *models.Customer, product *string, logos *[]string) {
	cmd.Flags().StringVar(product, "product", "", "product code being customized (required)")
	cmd.Flags().StringVar(&customer.FullName, "name", "", "customer full name (required)")
	cmd.Flags().StringVar(&customer.Company, "company", "", "company name")
	cmd.Flags().StringVar(&customer.Phone, "phone", "", "phone number (required)")
	cmd.Flags().StringVar(&customer.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&customer.Address, "address", "", "postal address")
	cmd.Flags().StringArrayVar(logos, "logo", nil, "re-attach a logo file as POSITION=FILE for the submission (repeatable)")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("email")
}

// attachLogos re-attaches logo files whose bytes are needed for the
// multipart submission (persisted baskets keep only hasLogo flags)
func attachLogos(sess interface {
	AttachLogo(positionID, fileName string, data []byte) error
}, logos []string) error {
	for _, l := range logos {
		slug, path, err := splitPair(l)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read logo file: %w", err)
		}
		if err := sess.AttachLogo(slug, filepath.Base(path), data); err != nil {
			return err
		}
	}
	return nil
}

func newQuotePreviewCmd(a *app.App) *cobra.Command {
	var (
		customer models.Customer
		product  string
		logos    []string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the quote summary without submitting",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.NewSession(product)
			sess.SetAutoRemoveDelay(0)
			if err := attachLogos(sess, logos); err != nil {
				return err
			}

			request, err := a.Quotes.BuildQuoteRequest(customer, sess)
			if err != nil {
				return err
			}

			s := request.Summary
			fmt.Printf("Quantity:           %d\n", s.TotalQuantity)
			fmt.Printf("Garments:           £%s\n", s.GarmentCost)
			fmt.Printf("Customizations:     £%s\n", s.CustomizationCost)
			fmt.Printf("Digitizing fee:     £%s\n", s.DigitizingFee)
			fmt.Printf("Subtotal (ex VAT):  £%s\n", s.SubTotal)
			fmt.Printf("VAT:                £%s\n", s.VAT)
			fmt.Printf("Total (inc VAT):    £%s\n", s.Total)
			return nil
		},
	}

	quoteFlags(cmd, &customer, &product, &logos)
	return cmd
}

func newQuoteSubmitCmd(a *app.App) *cobra.Command {
	var (
		customer models.Customer
		product  string
		logos    []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the quote request to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.NewSession(product)
			sess.SetAutoRemoveDelay(0)
			if err := attachLogos(sess, logos); err != nil {
				return err
			}

			resp, err := a.Quotes.Submit(cmd.Context(), customer, sess)
			if err != nil {
				return fmt.Errorf("quote submission failed (your basket is untouched): %w", err)
			}

			fmt.Printf("Quote submitted: reference %s (%s)\n", resp.Reference, resp.Status)
			return nil
		},
	}

	quoteFlags(cmd, &customer, &product, &logos)
	return cmd
}
