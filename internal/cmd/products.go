package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/catalog"
	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/render"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the GadgetLoop catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the products in the catalog",
	RunE:  runProductsList,
}

var productsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog by name, category, brand, or price range",
	Example: `  gadgetloop products search --name headset
  gadgetloop products search --category audio --max-price 5000
  gadgetloop products search --brand sony --page 2`,
	RunE: runProductsSearch,
}

var productsViewCmd = &cobra.Command{
	Use:   "view <product-id>",
	Short: "Show a single product in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsView,
}

var productsBuyCmd = &cobra.Command{
	Use:   "buy <product-id>",
	Short: "Order a product directly, cash on delivery",
	Long:  `Order a product directly without adding it to the cart, payable on delivery.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProductsBuy,
}

var (
	searchQuery catalog.SearchQuery
	buyQuantity int
)

func init() {
	productsBuyCmd.Flags().IntVarP(&buyQuantity, "quantity", "q", 1, "number of units to order")

	productsSearchCmd.Flags().StringVar(&searchQuery.Name, "name", "", "match against the product name")
	productsSearchCmd.Flags().StringVar(&searchQuery.Category, "category", "", "filter by category")
	productsSearchCmd.Flags().StringVar(&searchQuery.Brand, "brand", "", "filter by brand")
	productsSearchCmd.Flags().Float64Var(&searchQuery.MinPrice, "min-price", 0, "minimum price in Rs")
	productsSearchCmd.Flags().Float64Var(&searchQuery.MaxPrice, "max-price", 0, "maximum price in Rs")
	productsSearchCmd.Flags().IntVar(&searchQuery.Page, "page", 0, "result page")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsSearchCmd)
	productsCmd.AddCommand(productsViewCmd)
	productsCmd.AddCommand(productsBuyCmd)
	rootCmd.AddCommand(productsCmd)
}

func runProductsBuy(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if err := requireSession(cmd.Context(), a, guard.Route{Path: "/product/" + args[0]}); err != nil {
		return err
	}

	if err := a.cart.OrderProduct(cmd.Context(), args[0], buyQuantity); err != nil {
		return err
	}

	fmt.Println(render.Success(fmt.Sprintf("Ordered %d unit(s), payable on delivery", buyQuantity)))
	return nil
}

func runProductsList(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	products, err := a.catalog.List(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(render.Products(products))
	return nil
}

func runProductsSearch(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	products, total, err := a.catalog.Search(cmd.Context(), searchQuery)
	if err != nil {
		return err
	}

	fmt.Println(render.Products(products))
	if total > len(products) {
		fmt.Printf("Showing %d of %d matches; use --page to see more.\n", len(products), total)
	}
	return nil
}

func runProductsView(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	product, err := a.catalog.View(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(render.ProductDetail(product))
	return nil
}
