// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrcribb/trogon/internal/logging"
	"github.com/jrcribb/trogon/internal/tui"
	"github.com/jrcribb/trogon/pkg/schema"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open the builder on the bundled sample CLI",
	Long: `Opens the interactive builder on a bundled food-delivery CLI that
exercises every parameter kind: flags, options with choices, repeatable
options, file paths, and positional arguments.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log)

	tree, err := schema.Discover(newSampleCLI())
	if err != nil {
		return err
	}

	res, err := tui.Run(tui.Options{
		AppName:       "delivery",
		Root:          tree,
		DeclaredOrder: cfg.Serializer.DeclaredOrder,
		ColorScheme:   cfg.UI.ColorScheme,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	// The sample commands are not real executables; show what would run.
	fmt.Println(SuccessStyle.Render("would run: ") + CmdStyle.Render(res.DisplayString))
	return nil
}

// newSampleCLI builds the demo command tree. Every command is a no-op; the
// tree exists so the builder has realistic structure to walk.
func newSampleCLI() *cobra.Command {
	noop := func(*cobra.Command, []string) {}

	root := &cobra.Command{
		Use:   "delivery",
		Short: "Order food from the command line.",
	}

	order := &cobra.Command{Use: "order", Short: "Place and manage orders."}

	create := &cobra.Command{
		Use:   "create <item>...",
		Short: "Order one or more items.",
		Long:  "Order one or more items.\n\nItems ship from the nearest kitchen. Use --rush for priority handling.",
		Run:   noop,
	}
	create.Flags().String("size", "medium", "portion size")
	mustMarkChoices(create, "size", "small", "medium", "large")
	create.Flags().IntP("count", "c", 1, "how many of each item")
	create.Flags().StringSlice("topping", nil, "extra toppings, repeatable")
	create.Flags().Bool("rush", false, "priority preparation and delivery")
	create.Flags().String("note", "", "note for the kitchen")

	cancel := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order.",
		Run:   noop,
	}
	cancel.Flags().String("reason", "", "why the order is cancelled")
	order.AddCommand(create, cancel)

	restaurant := &cobra.Command{Use: "restaurant", Short: "Browse and rate restaurants."}

	list := &cobra.Command{
		Use:   "list",
		Short: "List nearby restaurants.",
		Run:   noop,
	}
	list.Flags().Int("limit", 10, "maximum results")
	list.Flags().Bool("open-now", false, "only restaurants currently open")

	rate := &cobra.Command{
		Use:   "rate <name>",
		Short: "Rate a restaurant.",
		Run:   noop,
	}
	rate.Flags().String("stars", "", "rating from 1 to 5")
	mustMarkChoices(rate, "stars", "1", "2", "3", "4", "5")
	if err := rate.MarkFlagRequired("stars"); err != nil {
		panic(err)
	}
	restaurant.AddCommand(list, rate)

	export := &cobra.Command{
		Use:   "export [file]",
		Short: "Export order history.",
		Run:   noop,
	}
	export.Flags().String("format", "json", "output format")
	mustMarkChoices(export, "format", "json", "csv")
	export.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	if err := export.MarkFlagFilename("output"); err != nil {
		panic(err)
	}

	root.AddCommand(order, restaurant, export)
	return root
}

func mustMarkChoices(cmd *cobra.Command, name string, choices ...string) {
	if err := schema.MarkFlagChoices(cmd, name, choices...); err != nil {
		panic(err)
	}
}
