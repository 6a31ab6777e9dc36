package main

import (
	"fmt"

	"rentalcar-backend/checkout"
	"rentalcar-backend/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// newBookCmd walks the checkout against a running API up to the payment step
// and prints the client secret for the payment UI.
func newBookCmd() *cobra.Command {
	var (
		apiURL, carID, location string
		pickup, ret             string
		name, email, phone      string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Create a booking and payment intent through the public API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(carID); err != nil {
				return fmt.Errorf("invalid --car: %w", err)
			}
			pickupAt, err := utils.ParseDate(pickup)
			if err != nil {
				return fmt.Errorf("invalid --pickup: %w", err)
			}
			returnAt, err := utils.ParseDate(ret)
			if err != nil {
				return fmt.Errorf("invalid --return: %w", err)
			}

			backend := checkout.NewHTTPBackend(apiURL)
			car, err := backend.GetCar(cmd.Context(), carID)
			if err != nil {
				return fmt.Errorf("load car %s: %w", carID, err)
			}

			m := checkout.New(backend, nil)
			if err := m.SelectCar(*car); err != nil {
				return err
			}
			if err := m.SetRental(location, pickupAt, returnAt); err != nil {
				return err
			}
			if err := m.Next(cmd.Context()); err != nil {
				return err
			}
			if err := m.SetPersonalInfo(name, email, phone); err != nil {
				return err
			}
			if err := m.Next(cmd.Context()); err != nil {
				return err
			}

			b := m.Booking()
			fmt.Printf("booking %s (%s) for %d day(s), total %.2f\n", b.Reference, b.ID, m.Days(), b.TotalPrice)
			fmt.Printf("client secret: %s\n", m.ClientSecret())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&apiURL, "api", "http://localhost:8080", "booking API base URL")
	f.StringVar(&carID, "car", "", "car id")
	f.StringVar(&location, "location", "", "pickup location")
	f.StringVar(&pickup, "pickup", "", "pickup date")
	f.StringVar(&ret, "return", "", "return date")
	f.StringVar(&name, "name", "", "customer name")
	f.StringVar(&email, "email", "", "customer email")
	f.StringVar(&phone, "phone", "", "customer phone")
	_ = cmd.MarkFlagRequired("car")
	return cmd
}
