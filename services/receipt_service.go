package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"rentalcar-backend/models"
	"rentalcar-backend/utils"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// ReceiptService renders booking receipts as PDF.
type ReceiptService struct {
	siteName string
	siteURL  string
	currency string
}

func NewReceiptService(siteName, siteURL, currency string) *ReceiptService {
	return &ReceiptService{siteName: siteName, siteURL: siteURL, currency: strings.ToUpper(currency)}
}

func (r *ReceiptService) Render(w io.Writer, b *models.Booking) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, r.siteName)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 8, r.siteURL)

	pdf.Ln(14)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(190, 10, "Booking Receipt")

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Reference: %s", b.Reference),
		fmt.Sprintf("Status: %s", b.Status),
		fmt.Sprintf("Issued: %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Customer: %s", b.CustomerName),
		fmt.Sprintf("Email: %s", b.Email),
		fmt.Sprintf("Phone: %s", b.Phone),
	}
	for _, line := range lines {
		pdf.Ln(8)
		pdf.Cell(190, 10, line)
	}

	pdf.Ln(14)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 10, "Vehicle")
	pdf.Cell(40, 10, "Daily rate")
	pdf.Cell(30, 10, "Days")
	pdf.Cell(40, 10, "Total")

	days := utils.RentalDays(b.PickupDate, b.ReturnDate)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(80, 10, b.Car.Model)
	pdf.Cell(40, 10, fmt.Sprintf("%.2f", b.Car.Price))
	pdf.Cell(30, 10, fmt.Sprintf("%d", days))
	pdf.Cell(40, 10, fmt.Sprintf("%.2f %s", b.TotalPrice, r.currency))

	pdf.Ln(14)
	pdf.Cell(190, 10, fmt.Sprintf("Pickup: %s at %s", b.PickupDate.Format("2006-01-02"), b.PickupLocation))
	pdf.Ln(8)
	pdf.Cell(190, 10, fmt.Sprintf("Return: %s", b.ReturnDate.Format("2006-01-02")))

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render receipt")
	}
	return nil
}
