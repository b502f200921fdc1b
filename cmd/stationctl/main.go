// Command stationctl is the operator command line for the station API.
//
//	stationctl hash-password <password>
//	stationctl dashboard --url http://localhost:8080 --user admin --range week
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/service/auth"
	"github.com/mamadbah2/station/internal/service/reporting"
	"github.com/mamadbah2/station/pkg/clients/station"
	"github.com/mamadbah2/station/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stationctl",
		Usage: "manage the petrol station backend",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log requests"},
		},
		Commands: []*cli.Command{
			{
				Name:      "hash-password",
				Usage:     "print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action:    hashPassword,
			},
			{
				Name:  "dashboard",
				Usage: "log in and print the dashboard",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: "http://localhost:8080", EnvVars: []string{"STATION_URL"}},
					&cli.StringFlag{Name: "user", Value: "admin", EnvVars: []string{"STATION_USER"}},
					&cli.StringFlag{Name: "password", EnvVars: []string{"STATION_PASSWORD"}, Required: true},
					&cli.StringFlag{Name: "range", Value: string(reporting.DefaultRange), Usage: "today, week, month, quarter, year or all"},
					&cli.StringFlag{Name: "start", Usage: "yyyy-MM-dd"},
					&cli.StringFlag{Name: "end", Usage: "yyyy-MM-dd"},
					&cli.BoolFlag{Name: "local", Usage: "aggregate locally from the raw records"},
					&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second},
				},
				Action: dashboard,
			},
		},
	}
}

func hashPassword(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one password argument")
	}
	hash, err := auth.HashPassword(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, hash)
	return nil
}

func dashboard(c *cli.Context) error {
	log := logger.Must(logger.NewConsole(c.Bool("verbose")))
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	client := station.NewClient(c.String("url"), c.Duration("timeout"))
	if _, err := client.Login(ctx, c.String("user"), c.String("password")); err != nil {
		return err
	}

	var report models.DashboardReport
	if c.Bool("local") {
		w, err := reporting.ParseWindow(c.String("range"), c.String("start"), c.String("end"), time.Local)
		if err != nil {
			return err
		}
		loader := station.NewLoader(client, reporting.NewEngine(time.Local, log.Named("engine")), log.Named("loader"))
		snap, err := loader.Refresh(ctx, w)
		if err != nil {
			return err
		}
		report = snap.Report
	} else {
		var err error
		report, err = client.Dashboard(ctx, c.String("range"), c.String("start"), c.String("end"))
		if err != nil {
			return err
		}
	}

	log.Debug("dashboard loaded", zap.String("range", report.Window.Range))
	printReport(c.App.Writer, report)
	return nil
}

func printReport(out io.Writer, r models.DashboardReport) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	s := r.Stats
	fmt.Fprintf(tw, "Range\t%s\n", r.Window.Range)
	fmt.Fprintf(tw, "Total sales\t%.2f\n", s.TotalSales)
	fmt.Fprintf(tw, "Quantity sold\t%.2f\n", s.TotalQuantitySold)
	fmt.Fprintf(tw, "Transactions\t%d\n", s.TotalTransactions)
	fmt.Fprintf(tw, "Expenses\t%.2f\n", s.TotalExpenses)
	fmt.Fprintf(tw, "Salaries\t%.2f\n", s.TotalSalaries)
	fmt.Fprintf(tw, "Profit/loss\t%.2f\n", s.ProfitLoss)
	fmt.Fprintf(tw, "Profit margin\t%s%%\n", s.ProfitMargin)
	fmt.Fprintf(tw, "Inventory turnover\t%s\n", s.InventoryTurnover)
	fmt.Fprintf(tw, "Low stock\t%d\n", s.LowStockCount)

	if len(r.SalesByProduct) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Product\tQuantity\tRevenue\tCount\tAvg price")
		for _, p := range r.SalesByProduct {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%d\t%.2f\n", p.Product, p.Quantity, p.Revenue, p.Count, p.AvgPrice)
		}
	}

	if len(r.ExpensesByCategory) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Category\tAmount\tCount\tShare")
		for _, e := range r.ExpensesByCategory {
			fmt.Fprintf(tw, "%s\t%.2f\t%d\t%s%%\n", e.Category, e.Amount, e.Count, e.Percentage)
		}
	}
}
