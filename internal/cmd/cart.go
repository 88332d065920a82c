package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/cart"
	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/render"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your shopping cart",
	Long: `Manage your shopping cart. All cart commands operate against the store's
copy of the cart; after every change the cart is refetched so what you see
is what the store holds.`,
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart contents and totals",
	RunE:  runCartList,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartIncCmd = &cobra.Command{
	Use:   "inc <item-id>",
	Short: "Increase an item's quantity by one",
	Long: `Increase a cart item's quantity by one. Quantities are capped at ` + fmt.Sprint(cart.MaxQuantity) + `
per item; an increment past the cap is refused without calling the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runCartInc,
}

var cartDecCmd = &cobra.Command{
	Use:   "dec <item-id>",
	Short: "Decrease an item's quantity by one",
	Long: `Decrease a cart item's quantity by one. Quantities never go below ` + fmt.Sprint(cart.MinQuantity) + `;
use 'cart remove' to drop the item entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: runCartDec,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE:  runCartClear,
}

func init() {
	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartIncCmd)
	cartCmd.AddCommand(cartDecCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

// cartSession bootstraps the session and guards the cart destination.
func cartSession(cmd *cobra.Command) (*app, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	if err := requireSession(cmd.Context(), a, guard.Route{Path: "/cart"}); err != nil {
		return nil, err
	}
	return a, nil
}

func runCartList(cmd *cobra.Command, args []string) error {
	a, err := cartSession(cmd)
	if err != nil {
		return err
	}

	if err := a.cart.Refresh(cmd.Context()); err != nil {
		return err
	}

	fmt.Println(render.Cart(a.cart.Items(), a.cart.Summary()))
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	a, err := cartSession(cmd)
	if err != nil {
		return err
	}

	if err := a.cart.AddProduct(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println(render.Success("Added to cart"))
	fmt.Println(render.Cart(a.cart.Items(), a.cart.Summary()))
	return nil
}

func runCartInc(cmd *cobra.Command, args []string) error {
	return changeCartQuantity(cmd, args[0], cart.Increment)
}

func runCartDec(cmd *cobra.Command, args []string) error {
	return changeCartQuantity(cmd, args[0], cart.Decrement)
}

func changeCartQuantity(cmd *cobra.Command, itemID string, direction cart.Direction) error {
	a, err := cartSession(cmd)
	if err != nil {
		return err
	}

	// The change needs the current cart to know the item's quantity.
	if err := a.cart.Refresh(cmd.Context()); err != nil {
		return err
	}

	if err := a.cart.ChangeQuantity(cmd.Context(), itemID, direction); err != nil {
		return err
	}

	fmt.Println(render.Cart(a.cart.Items(), a.cart.Summary()))
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	a, err := cartSession(cmd)
	if err != nil {
		return err
	}

	if err := a.cart.RemoveItem(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println(render.Success("Removed from cart"))
	fmt.Println(render.Cart(a.cart.Items(), a.cart.Summary()))
	return nil
}

func runCartClear(cmd *cobra.Command, args []string) error {
	a, err := cartSession(cmd)
	if err != nil {
		return err
	}

	if err := a.cart.Flush(cmd.Context()); err != nil {
		return err
	}

	fmt.Println(render.Success("Cart cleared"))
	return nil
}
