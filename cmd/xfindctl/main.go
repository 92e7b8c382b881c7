package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind"
)

func main() {
	app := &cli.Command{
		Name:  "xfindctl",
		Usage: "Query a Solr core from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "solr-url",
				Usage:   "Solr base URL",
				Value:   "http://localhost:8983/solr",
				Sources: cli.EnvVars("SOLR_URL"),
			},
			&cli.StringFlag{
				Name:    "core",
				Usage:   "Solr core (collection) name",
				Value:   "items",
				Sources: cli.EnvVars("SOLR_CORE"),
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Document key field",
				Value: "id",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 10 * time.Second,
			},
			&cli.StringFlag{
				Name:    "redis",
				Usage:   "Redis address for response caching (disabled when empty)",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			SearchCommand(),
			GetCommand(),
			PingCommand(),
			VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newClient builds an SDK client from the global flags.
func newClient(ctx context.Context, c *cli.Command, opts ...xfind.Option) (*xfind.Client, error) {
	logger := zap.NewNop()
	if c.Bool("debug") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		logger = l
	}

	schema, err := xfind.NewSchema(c.String("key"), nil)
	if err != nil {
		return nil, err
	}
	base := []xfind.Option{
		xfind.WithSolr(c.String("solr-url"), c.String("core")),
		xfind.WithTimeout(c.Duration("timeout")),
		xfind.WithLogger(logger),
		xfind.WithSchema(schema),
	}
	if addr := c.String("redis"); addr != "" {
		base = append(base, xfind.WithRedisCache(addr, "", time.Minute))
	}
	return xfind.New(ctx, append(base, opts...)...)
}
