package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gadgetloop/storefront/internal/guard"
	"github.com/gadgetloop/storefront/internal/render"
	"github.com/gadgetloop/storefront/internal/tui"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Order the contents of your cart",
}

var checkoutCodCmd = &cobra.Command{
	Use:   "cod",
	Short: "Place a cash-on-delivery order for every cart item",
	Long: `Place a cash-on-delivery order for every item in the cart. Items are
ordered one at a time; if an order fails partway the items already ordered
and those still waiting are both reported, and the cart keeps the waiting
items so the checkout can be retried.`,
	RunE: runCheckoutCod,
}

var checkoutPayCmd = &cobra.Command{
	Use:   "pay",
	Short: "Start an online payment through Khalti",
	Long: `Start an online payment for the cart through the Khalti gateway. The
store returns a payment URL to finish the payment in a browser; the cart is
left untouched until the payment is verified.`,
	RunE: runCheckoutPay,
}

var checkoutVerifyCmd = &cobra.Command{
	Use:   "verify <pidx>",
	Short: "Verify a completed Khalti payment",
	Long: `Verify a Khalti payment using the pidx the gateway redirect carries.
A verified payment empties the cart.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckoutVerify,
}

var checkoutYes bool

func init() {
	checkoutCodCmd.Flags().BoolVarP(&checkoutYes, "yes", "y", false, "skip the confirmation prompt")

	checkoutCmd.AddCommand(checkoutCodCmd)
	checkoutCmd.AddCommand(checkoutPayCmd)
	checkoutCmd.AddCommand(checkoutVerifyCmd)
	rootCmd.AddCommand(checkoutCmd)
}

func checkoutSession(cmd *cobra.Command) (*app, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	if err := requireSession(cmd.Context(), a, guard.Route{Path: "/checkout"}); err != nil {
		return nil, err
	}
	if err := a.cart.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return a, nil
}

func runCheckoutCod(cmd *cobra.Command, args []string) error {
	a, err := checkoutSession(cmd)
	if err != nil {
		return err
	}

	summary := a.cart.Summary()
	fmt.Println(render.Cart(a.cart.Items(), summary))

	if !checkoutYes {
		if !tui.ShouldPrompt() {
			return fmt.Errorf("pass --yes to checkout without a confirmation prompt")
		}
		ok, err := tui.PromptForConfirmation(
			fmt.Sprintf("Order %d item(s) for Rs %.2f, cash on delivery?", summary.TotalQuantity, summary.TotalPrice),
			false,
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Checkout cancelled")
			return nil
		}
	}

	outcome, err := a.cart.CheckoutCashOnDelivery(cmd.Context())
	if err != nil {
		for _, item := range outcome.Ordered {
			fmt.Printf("ordered: %s x%d\n", item.Name, item.Quantity)
		}
		for _, item := range outcome.Remaining {
			fmt.Printf("still in cart: %s x%d\n", item.Name, item.Quantity)
		}
		return err
	}

	fmt.Println(render.Success(fmt.Sprintf("Ordered %d item(s), payable on delivery", len(outcome.Ordered))))
	return nil
}

func runCheckoutPay(cmd *cobra.Command, args []string) error {
	a, err := checkoutSession(cmd)
	if err != nil {
		return err
	}

	paymentURL, err := a.cart.CheckoutOnline(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(render.Success("Payment started"))
	fmt.Printf("Finish the payment in your browser:\n\n  %s\n\nThen run 'gadgetloop checkout verify <pidx>' with the pidx from the redirect.\n", paymentURL)
	return nil
}

func runCheckoutVerify(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	if err := requireSession(cmd.Context(), a, guard.Route{Path: "/checkout"}); err != nil {
		return err
	}

	if err := a.cart.VerifyPayment(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println(render.Success("Payment verified, order placed"))
	return nil
}
