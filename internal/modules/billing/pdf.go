package billing

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const stampLayout = "2006-01-02 15:04"

// RenderPDF lays the invoice out on a single A4 page.
func RenderPDF(inv *Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreationDate(inv.CreatedAt)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	line := func(text string) {
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}
	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		line(text)
		pdf.SetFont("Helvetica", "", 11)
	}

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	line("Invoice Number: " + inv.InvoiceNumber)
	line("Date: " + inv.CreatedAt.Format(stampLayout))

	heading("Customer")
	c := inv.Customer
	line("Name: " + c.Name)
	line("Email: " + c.Email)
	line("Phone: " + c.Phone)
	addr := c.ShippingAddress
	line(fmt.Sprintf("Address: %s, %s %s, %s", addr.AddressLine1, addr.City, addr.PostalCode, addr.Country))

	heading("Items")
	for i, item := range inv.Items {
		line(fmt.Sprintf("%d. %s - %d x $%s = $%s",
			i+1, item.Name, item.Quantity, item.Price.StringFixed(2), item.Total.StringFixed(2)))
	}

	heading("Summary")
	line("Items Price: $" + inv.ItemsPrice.StringFixed(2))
	line("Shipping Price: $" + inv.ShippingPrice.StringFixed(2))
	pdf.SetFont("Helvetica", "B", 11)
	line("Total Price: $" + inv.TotalPrice.StringFixed(2))
	pdf.SetFont("Helvetica", "", 11)
	line("Payment Method: " + string(inv.PaymentMethod))
	line("Paid: " + stamp(inv.IsPaid, inv.PaidAt))
	line("Delivered: " + stamp(inv.IsDelivered, inv.DeliveredAt))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stamp(done bool, at *time.Time) string {
	switch {
	case !done:
		return "No"
	case at == nil:
		return "Yes"
	}
	return "Yes (" + at.Format(stampLayout) + ")"
}
