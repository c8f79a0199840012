package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brandeduk-store/app"
)

// Execute runs the storefront engine CLI. Each invocation works against
// the shared persisted basket, so separate terminals behave like separate
// browser tabs over the same store.
func Execute(a *app.App) error {
	root := &cobra.Command{
		Use:          "brandeduk",
		Short:        "Custom-apparel customization and quoting engine",
		Long:         `brandeduk drives the custom-apparel storefront engine: browse garments, build a basket with tiered pricing, decorate positions with logos or text, and submit quote requests.`,
		SilenceUsage: true,
	}

	root.AddCommand(newProductsCmd(a))
	root.AddCommand(newBasketCmd(a))
	root.AddCommand(newCustomizeCmd(a))
	root.AddCommand(newQuoteCmd(a))

	return root.ExecuteContext(context.Background())
}

// splitPair parses a "key=value" argument
func splitPair(arg string) (string, string, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", arg)
	}
	return parts[0], parts[1], nil
}
