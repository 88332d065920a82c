// Package render formats store state for terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gadgetloop/storefront/internal/cart"
	"github.com/gadgetloop/storefront/internal/catalog"
	"github.com/gadgetloop/storefront/internal/profile"
	"github.com/gadgetloop/storefront/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
)

// Cart renders the cart items and summary.
func Cart(items []cart.Item, summary cart.Summary) string {
	if len(items) == 0 {
		return labelStyle.Render("Your cart is empty.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Shopping Cart"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-26s %-22s %9s %5s %12s", "ITEM", "NAME", "PRICE", "QTY", "SUBTOTAL")))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("%-26s %-22s %9s %5d %12s\n",
			truncate(item.ID, 26),
			truncate(item.Name, 22),
			money(item.UnitPrice),
			item.Quantity,
			money(item.UnitPrice*float64(item.Quantity)),
		))
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Total quantity: "))
	b.WriteString(fmt.Sprintf("%d\n", summary.TotalQuantity))
	b.WriteString(labelStyle.Render("Total price:    "))
	b.WriteString(money(summary.TotalPrice))
	b.WriteString("\n")
	return b.String()
}

// Products renders a product listing.
func Products(products []catalog.Product) string {
	if len(products) == 0 {
		return labelStyle.Render("No products found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-26s %-24s %-14s %9s %6s", "ID", "NAME", "BRAND", "PRICE", "STOCK")))
	b.WriteString("\n")
	for _, p := range products {
		b.WriteString(fmt.Sprintf("%-26s %-24s %-14s %9s %6d\n",
			truncate(p.ID, 26),
			truncate(p.Name, 24),
			truncate(p.Brand, 14),
			money(p.Price),
			p.Stock,
		))
	}
	return b.String()
}

// ProductDetail renders one product in full.
func ProductDetail(p *catalog.Product) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name))
	b.WriteString("\n\n")
	writeField(&b, "ID", p.ID)
	writeField(&b, "Brand", p.Brand)
	writeField(&b, "Category", p.Category)
	writeField(&b, "Price", money(p.Price))
	writeField(&b, "Stock", fmt.Sprintf("%d", p.Stock))
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// Profile renders the account profile.
func Profile(p *profile.Profile) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.TrimSpace(p.FirstName + " " + p.LastName)))
	b.WriteString("\n\n")
	writeField(&b, "Email", p.Email)
	writeField(&b, "Role", p.Role)
	if p.Verified {
		writeField(&b, "Verified", successStyle.Render("yes ("+p.VerifiedAs+")"))
	} else {
		writeField(&b, "Verified", warnStyle.Render("no"))
	}
	return b.String()
}

// SessionStatus renders who is logged in.
func SessionStatus(snap session.Snapshot) string {
	switch snap.Status {
	case session.StatusResolved:
		var b strings.Builder
		b.WriteString(successStyle.Render("Logged in"))
		b.WriteString("\n")
		writeField(&b, "Name", strings.TrimSpace(snap.User.FirstName+" "+snap.User.LastName))
		writeField(&b, "Email", snap.User.Email)
		writeField(&b, "Role", snap.User.Role)
		return b.String()
	case session.StatusResolving:
		return labelStyle.Render("Resolving session...") + "\n"
	default:
		return labelStyle.Render("Not logged in.") + "\n"
	}
}

// Success renders a success notice.
func Success(msg string) string {
	return successStyle.Render(msg) + "\n"
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label+":")))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func money(amount float64) string {
	return fmt.Sprintf("Rs %.2f", amount)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
