package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"brandeduk-store/app"
	"brandeduk-store/models"
	"brandeduk-store/utils"
)

func newBasketCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "basket",
		Short: "Inspect and mutate the persisted basket",
	}

	cmd.AddCommand(newBasketShowCmd(a))
	cmd.AddCommand(newBasketAddCmd(a))
	cmd.AddCommand(newBasketAdjustCmd(a))
	cmd.AddCommand(newBasketRemoveCmd(a))
	cmd.AddCommand(newBasketClearCmd(a))
	return cmd
}

func newBasketShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the basket contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			basket, err := a.Basket.Basket()
			if err != nil {
				return err
			}
			if len(basket.Items) == 0 {
				fmt.Println("Basket is empty")
				return nil
			}

			var grandTotal int64
			for i, item := range basket.Items {
				unit := utils.ParsePenceOr(item.Price, 0)
				lineTotal := unit * int64(item.TotalQuantity())
				grandTotal += lineTotal

				fmt.Printf("[%d] %s %s (%s) @ %s each = %s\n",
					i, item.Code, item.Name, item.Color, utils.FormatGBP(unit), utils.FormatGBP(lineTotal))
				for _, size := range sortedSizes(item.Quantities) {
					fmt.Printf("      %-5s x %d\n", size, item.Quantities[size])
				}
				for _, c := range item.Customizations {
					fmt.Printf("      + %s %s on %s (%s)\n", c.Method, c.Type, utils.MapSlugToPosition(c.Position), utils.FormatGBP(utils.ParsePenceOr(c.Price, 0)))
				}
			}
			fmt.Printf("Garment total: %s\n", utils.FormatGBP(grandTotal))
			return nil
		},
	}
}

func newBasketAddCmd(a *app.App) *cobra.Command {
	var (
		code, name, color, image, price string
		quantities                      []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add (or merge) size quantities for a garment colour",
		RunE: func(cmd *cobra.Command, args []string) error {
			sizeQty := make(map[string]int)
			for _, q := range quantities {
				size, qty, err := splitPair(q)
				if err != nil {
					return err
				}
				sizeQty[size] = utils.ParseQuantity(qty)
			}

			basket, err := a.Basket.AddOrMergeItem(models.BasketItem{
				Code:       code,
				Name:       name,
				Color:      color,
				Image:      image,
				Price:      price,
				Quantities: sizeQty,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Basket now holds %d item(s)\n", len(basket.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "product code (required)")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&color, "color", "", "colour name (required)")
	cmd.Flags().StringVar(&image, "image", "", "product image URL")
	cmd.Flags().StringVar(&price, "price", "", "base unit price, e.g. 18.99")
	cmd.Flags().StringArrayVar(&quantities, "qty", nil, "size quantity as SIZE=N (repeatable)")
	cmd.MarkFlagRequired("code")
	cmd.MarkFlagRequired("color")
	return cmd
}

func newBasketAdjustCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust INDEX SIZE DELTA",
		Short: "Change one size row by a delta (clamped at 0)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item index %q", args[0])
			}
			delta, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid delta %q", args[2])
			}

			if _, err := a.Basket.AdjustQuantity(index, args[1], delta); err != nil {
				return err
			}
			fmt.Println("Basket updated")
			return nil
		},
	}
}

func newBasketRemoveCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove INDEX [SIZE]",
		Short: "Remove one size row, or a whole item",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item index %q", args[0])
			}
			size := ""
			if len(args) == 2 {
				size = args[1]
			}

			if _, err := a.Basket.RemoveItem(index, size); err != nil {
				return err
			}
			fmt.Println("Basket updated")
			return nil
		},
	}
}

func newBasketClearCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the basket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Basket.Clear()
		},
	}
}

func sortedSizes(quantities map[string]int) []string {
	sizes := make([]string, 0, len(quantities))
	for size := range quantities {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}
