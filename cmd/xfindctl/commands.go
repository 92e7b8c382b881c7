package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/xfind"
	"github.com/kailas-cloud/xfind/internal/version"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the core and print one page of results",
		ArgsUsage: "[raw query]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "where",
				Usage: "field,value or field,OP,value clause joined with AND (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "or-where",
				Usage: "field,value or field,OP,value clause joined with OR (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "filter",
				Usage: "Named filter query name=expression (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "facet",
				Usage: "Facet name or name=field (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "sort",
				Usage: "field or field:asc|desc (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "highlight",
				Usage: "Field to highlight (repeatable)",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "per-page",
				Usage: "Results per page",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the page as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := newClient(ctx, c)
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			defer client.Close()

			b, err := buildSearch(client.Query(), searchArgs{
				raw:       c.Args().First(),
				where:     c.StringSlice("where"),
				orWhere:   c.StringSlice("or-where"),
				filters:   c.StringSlice("filter"),
				facets:    c.StringSlice("facet"),
				sort:      c.StringSlice("sort"),
				highlight: c.StringSlice("highlight"),
			})
			if err != nil {
				return err
			}

			p, err := b.Paginate(ctx, c.Int("per-page"), c.Int("page"))
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}
			if c.Bool("json") {
				return printJSON(c.Root().Writer, p)
			}
			renderPage(c.Root().Writer, b.Text(), p)
			return nil
		},
	}
}

// GetCommand creates the get command
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Fetch one document by key",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the document as JSON",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return fmt.Errorf("document id is required")
			}
			client, err := newClient(ctx, c)
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			defer client.Close()

			doc, err := client.Query().FindOrFail(ctx, id)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c.Root().Writer, doc)
			}
			renderDocument(c.Root().Writer, doc)
			return nil
		},
	}
}

// PingCommand creates the ping command
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that Solr (and the cache, if set) respond",
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := newClient(ctx, c)
			if err != nil {
				return fmt.Errorf("creating client: %w", err)
			}
			defer client.Close()

			report := client.Health(ctx)
			renderHealth(c.Root().Writer, report)
			if report.Status == xfind.Unhealthy {
				return fmt.Errorf("unhealthy: %s", report.Status)
			}
			return nil
		},
	}
}

// VersionCommand creates the version command
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(ctx context.Context, c *cli.Command) error {
			_, err := fmt.Fprintf(c.Root().Writer, "xfindctl %s\n", version.String())
			return err
		},
	}
}
