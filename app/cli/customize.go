package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"brandeduk-store/app"
	"brandeduk-store/models"
)

func newCustomizeCmd(a *app.App) *cobra.Command {
	var (
		product    string
		selects    []string
		logos      []string
		texts      []string
		removeBGs  []string
		restoreBGs []string
		resets     []string
	)

	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Decorate a garment's positions and sync the result to the basket",
		Long: `Customize applies decoration actions to a product's positions and writes
the resulting customizations onto every basket entry of that product.
Previously synced selections are restored before the actions run, so
repeated invocations build on each other like clicks in one page session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.NewSession(product)
			// Tests and one-shot CLI runs want the auto removal inline
			sess.SetAutoRemoveDelay(0)

			for _, sel := range selects {
				slug, method, err := splitPair(sel)
				if err != nil {
					return err
				}
				if err := sess.SelectMethod(slug, models.Method(method)); err != nil {
					return err
				}
			}

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

			for _, t := range texts {
				slug, text, err := splitPair(t)
				if err != nil {
					return err
				}
				if err := sess.AttachText(slug, text); err != nil {
					return err
				}
			}

			for _, slug := range removeBGs {
				// An undecodable logo keeps its original image; the rest of
				// the actions and the basket sync still run
				if err := sess.RemoveBackground(slug); err != nil {
					log.Printf("⚠️  Background removal failed for %s: %v", slug, err)
				}
			}

			for _, slug := range restoreBGs {
				if _, err := sess.RestoreBackground(slug); err != nil {
					return err
				}
			}

			for _, slug := range resets {
				if err := sess.Reset(slug); err != nil {
					return err
				}
			}

			if _, err := a.Basket.SyncCustomizations(product, sess.Customizations()); err != nil {
				return err
			}

			for _, p := range sess.Positions() {
				badges, _ := sess.Badges(p.ID)
				state := "empty"
				switch {
				case p.IsCustomized() && p.Logo != nil:
					state = fmt.Sprintf("logo %s (%s)", p.Logo.FileName, p.SelectedMethod)
				case p.IsCustomized():
					state = fmt.Sprintf("text %q (%s)", p.CustomizationText, p.SelectedMethod)
				case p.HasMethod():
					state = string(p.SelectedMethod)
				}
				fmt.Printf("%-14s %-28s [embroidery: %s, print: %s]\n",
					p.ID, state, badges[models.MethodEmbroidery], badges[models.MethodPrint])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "product code being customized (required)")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "select a method as POSITION=METHOD (repeatable)")
	cmd.Flags().StringArrayVar(&logos, "logo", nil, "attach a logo as POSITION=FILE (repeatable)")
	cmd.Flags().StringArrayVar(&texts, "text", nil, "attach text as POSITION=TEXT (repeatable)")
	cmd.Flags().StringArrayVar(&removeBGs, "remove-bg", nil, "remove a logo's background (repeatable)")
	cmd.Flags().StringArrayVar(&restoreBGs, "restore-bg", nil, "restore a logo's original background (repeatable)")
	cmd.Flags().StringArrayVar(&resets, "reset", nil, "delete a position's customization (repeatable)")
	cmd.MarkFlagRequired("product")
	return cmd
}
