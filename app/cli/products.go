package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"brandeduk-store/app"
	"brandeduk-store/utils"
)

func newProductsCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the garment catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all garments",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.Products.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range products {
				fmt.Printf("%-8s %-32s %s\n", p.Code, p.Name, utils.FormatGBP(utils.ParsePenceOr(p.BasePrice, 0)))
			}
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get CODE",
		Short: "Show one garment with its colours and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Products.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s - %s, from %s\n", p.Code, p.Name, utils.FormatGBP(utils.ParsePenceOr(p.BasePrice, 0)))
			fmt.Printf("Sizes: %v\n", p.Sizes)
			for _, c := range p.Colors {
				fmt.Printf("  %s\n", c.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
