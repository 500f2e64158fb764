// painel-cli inspects the dashboard pages from a terminal.
//
// Usage:
//
//	painel-cli pages
//	painel-cli show --page contratos [--url URL] [--filter unidade=Sede] [--json]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"painel/internal/aggregate"
	"painel/internal/backend"
	appcli "painel/internal/cli"
	"painel/internal/core"
	"painel/internal/dashboard"
	"painel/internal/log"
	"painel/internal/sheets"
	"painel/internal/sheets/memory"
	"painel/internal/sheets/published"
)

var version = "dev"

func main() {
	appcli.LoadEnvFile()

	app := &cli.App{
		Name:    "painel-cli",
		Usage:   "Inspect the painel dashboard pages from published spreadsheets",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			pagesCommand(),
			showCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "pages",
		Usage: "List the dashboard pages and their configuration keys",
		Action: func(c *cli.Context) error {
			board := dashboard.NewBoard(nil, dashboard.Options{Logger: log.Discard()})
			w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PÁGINA\tTÍTULO\tFILTROS\tVARIÁVEL")
			for _, d := range board.Pages() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s_CSV_URL\n",
					d.Page(), d.Title(), strings.Join(d.FilterFields(), ", "), d.Page().EnvPrefix())
			}
			return w.Flush()
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Fetch one page and print its indicators and charts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "page",
				Aliases:  []string{"p"},
				Usage:    "Page name (contratos, equipamentos, faturamento, servicos)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Published CSV link; overrides the configured source",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Local CSV file; overrides the configured source",
			},
			&cli.StringSliceFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Filter as campo=valor (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full view as JSON",
			},
		},
		Action: runShow,
	}
}

func runShow(c *cli.Context) error {
	logger := appcli.SetupLogger(c.String("log-level")).WithComponent(log.ComponentCLI)

	page, ok := core.ParsePage(c.String("page"))
	if !ok {
		return cli.Exit(fmt.Sprintf("página desconhecida %q", c.String("page")), 2)
	}

	criteria, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	source, err := pageSource(c, page, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	board := dashboard.NewBoard(map[core.Page]sheets.TableReader{page: source}, dashboard.Options{Logger: logger})
	d, err := board.Get(page.String())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if _, err := d.Refresh(c.Context); err != nil {
		return cli.Exit(fmt.Sprintf("%v\n%s", err, core.Hint(err)), 1)
	}

	view := d.View(criteria)
	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printView(c, view)
}

// pageSource honours --file, then --url, then the configured backend.
func pageSource(c *cli.Context, page core.Page, logger *log.Logger) (sheets.TableReader, error) {
	if path := c.String("file"); path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return memory.New(string(body)), nil
	}

	cfg := appcli.LoadAndValidateConfig(logger)
	if url := c.String("url"); url != "" {
		return published.New(url, published.WithTimeout(cfg.FetchTimeout)), nil
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := backend.NewFactory(logger).CreateSources(context.WithoutCancel(c.Context), backendCfg)
	if err != nil {
		return nil, err
	}
	return sources[page], nil
}

func parseFilters(raw []string) (aggregate.Criteria, error) {
	criteria := make(aggregate.Criteria, len(raw))
	for _, f := range raw {
		field, value, ok := strings.Cut(f, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("filtro inválido %q, use campo=valor", f)
		}
		criteria[field] = strings.TrimSpace(value)
	}
	return criteria, nil
}

func printView(c *cli.Context, view dashboard.View) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s (%d registros", view.Title, view.Status.Records)
	if view.Status.Dropped > 0 {
		fmt.Fprintf(w, ", %d linhas ignoradas", view.Status.Dropped)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)

	for _, k := range view.KPIs {
		fmt.Fprintf(w, "%s\t%s\n", k.Label, k.Text)
	}

	for _, ch := range view.Charts {
		fmt.Fprintf(w, "\n%s\n", ch.Title)
		for _, ds := range ch.Datasets {
			if len(ch.Datasets) > 1 {
				fmt.Fprintf(w, "  [%s]\n", ds.Label)
			}
			for _, pt := range ds.Series {
				fmt.Fprintf(w, "  %s\t%s\n", pt.Label, formatValue(ch.Unit, pt.Value))
			}
		}
	}
	return w.Flush()
}

// formatValue renders a series value the way the matching KPI text does.
func formatValue(unit string, v float64) string {
	if unit == dashboard.UnitCount {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return core.FormatBRL(v)
}
