// Command invoicectl renders invoices from YAML files and optionally records
// them in the ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diewo77/go-invoice-ledger/internal/config"
	"github.com/diewo77/go-invoice-ledger/internal/ledger"
	"github.com/diewo77/go-invoice-ledger/internal/logger"
	"github.com/diewo77/go-invoice-ledger/internal/models"
	"github.com/diewo77/go-invoice-ledger/internal/pdf"
	"github.com/diewo77/go-invoice-ledger/internal/services"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	inputFlag := &cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "invoice YAML file", Required: true}
	outFlag := &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "."}

	return &cli.App{
		Name:      "invoicectl",
		Usage:     "render invoices and append them to the ledger",
		Writer:    stdout,
		ErrWriter: stderr,
		ExitErrHandler: func(c *cli.Context, err error) {
			if err != nil {
				fmt.Fprintln(c.App.ErrWriter, err)
			}
		},
		Commands: []*cli.Command{
			{
				Name:  "catalog",
				Usage: "list sellable items and payment modes",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, "Items:")
					for _, it := range models.Catalog {
						fmt.Fprintln(c.App.Writer, "  "+it)
					}
					fmt.Fprintln(c.App.Writer, "Payment modes:")
					for _, m := range models.PaymentModes {
						fmt.Fprintln(c.App.Writer, "  "+string(m))
					}
					return nil
				},
			},
			{
				Name:   "render",
				Usage:  "write the invoice PDF without touching the ledger",
				Flags:  []cli.Flag{inputFlag, outFlag},
				Action: func(c *cli.Context) error { return run(c, false) },
			},
			{
				Name:   "submit",
				Usage:  "write the invoice PDF and append it to the ledger",
				Flags:  []cli.Flag{inputFlag, outFlag},
				Action: func(c *cli.Context) error { return run(c, true) },
			},
		},
	}
}

func run(c *cli.Context, record bool) error {
	cfg := config.Load()
	zl, err := logger.New(cfg.IsProduction())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer func() { _ = zl.Sync() }()

	f, err := loadInvoiceFile(c.String("input"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	details, items, err := f.submission()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var ldg services.Appender
	if record {
		if err := cfg.Validate(); err != nil {
			return cli.Exit(err.Error(), 1)
		}
		l, err := ledger.FromConfig(cfg, zl)
		if err != nil {
			return cli.Exit("ledger setup: "+err.Error(), 1)
		}
		ldg = l
	}
	svc := services.NewInvoiceService(pdf.FromConfig(cfg.Seller), ldg, zl)

	ctx := logger.WithContext(context.Background(), zl)
	var out *services.Outcome
	if record {
		out, err = svc.Submit(ctx, details, items)
	} else {
		out, err = svc.Render(ctx, details, items)
	}
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return cli.Exit(ve.Message+" ("+strings.Join(ve.Fields(), ", ")+")", 1)
		}
		zl.Error("render failed", zap.Error(err))
		return cli.Exit(err.Error(), 1)
	}

	dir := c.String("out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	path := filepath.Join(dir, out.FileName)
	if err := os.WriteFile(path, out.Document, 0o644); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Fprintf(c.App.Writer, "%s subtotal=%s -> %s\n", out.Invoice.CustomerID, out.Invoice.Subtotal.String(), path)

	if !record {
		return nil
	}
	// a ledger failure does not fail the command: the document is written
	if out.LedgerErr != nil {
		fmt.Fprintln(c.App.ErrWriter, "Error updating Google Sheet: "+out.LedgerErr.Error())
		return nil
	}
	fmt.Fprintln(c.App.Writer, "Invoice data updated in Google Sheet successfully!")
	if out.Ledger.URL != "" {
		fmt.Fprintln(c.App.Writer, out.Ledger.URL)
	}
	return nil
}
