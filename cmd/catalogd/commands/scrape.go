package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hookahdb/catalog-scraper/pkg/scraper"
)

func init() {
	rootCmd.AddCommand(scrapeBrandsCmd)
	rootCmd.AddCommand(scrapeBrandCmd)
	rootCmd.AddCommand(scrapeFlavorCmd)

	scrapeAllCmd.Flags().IntVar(&scrapeAllConcurrency, "concurrency", scraper.DefaultCatalogConfig().MaxConcurrency, "brands worked in parallel")
	rootCmd.AddCommand(scrapeAllCmd)
}

var scrapeBrandsCmd = &cobra.Command{
	Use:   "scrape-brands",
	Short: "Fetch the full brand listing and print it as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		brands, err := a.scraper.ScrapeBrandsList(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(brands)
	},
}

var scrapeBrandCmd = &cobra.Command{
	Use:   "scrape-brand <slug>",
	Short: "Fetch one brand's details and flavor URLs and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		slug := args[0]
		brand, err := a.scraper.ScrapeBrandDetails(cmd.Context(), slug)
		if err != nil {
			return err
		}
		if brand == nil {
			return fmt.Errorf("brand %q not found", slug)
		}

		urls, err := a.scraper.ExtractFlavorURLs(cmd.Context(), slug)
		if err != nil {
			return err
		}
		brand.FlavorURLs = urls
		return printJSON(brand)
	},
}

var scrapeFlavorCmd = &cobra.Command{
	Use:   "scrape-flavor <slug>",
	Short: "Fetch one flavor's details and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		flavor, err := a.scraper.ScrapeFlavorDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if flavor == nil {
			return fmt.Errorf("flavor %q not found", args[0])
		}
		return printJSON(flavor)
	},
}

var scrapeAllConcurrency int

var scrapeAllCmd = &cobra.Command{
	Use:   "scrape-all",
	Short: "Harvest the whole catalogue and print a run summary as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		catalogCfg := scraper.DefaultCatalogConfig()
		catalogCfg.MaxConcurrency = scrapeAllConcurrency
		result, err := a.scraper.ScrapeCatalog(cmd.Context(), catalogCfg)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"brands":   len(result.Brands),
			"flavors":  len(result.Flavors),
			"skipped":  result.Skipped,
			"failed":   result.Failed,
			"duration": result.Duration.String(),
		})
	},
}
