package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/kaffarell/rfc"
	"github.com/kaffarell/rfc/cache"
	"github.com/kaffarell/rfc/document"
	"github.com/kaffarell/rfc/fetch"
	"github.com/kaffarell/rfc/search"
	"github.com/kaffarell/rfc/server"
)

// this is set by goreleaser
var version string

func init() {
	if version == "" {
		version = "dev"
	}
}

func main() {
	app := &cli.App{
		Name:    "rfc",
		Usage:   "Read and search IETF RFCs and Internet-Drafts from the command line",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"RFC_CONFIG"},
				Usage:   "Path to config file",
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				EnvVars: []string{"RFC_CACHE_DIR"},
				Usage:   "Cache directory (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "Verbosity: trace logging",
			},
		},
		Before: func(ctx *cli.Context) error {
			logLevel := zerolog.WarnLevel
			if ctx.Bool("vv") {
				logLevel = zerolog.TraceLevel
			}
			log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Str("version", version).Logger()
			return nil
		},
		Commands: []*cli.Command{
			readCommand(),
			searchCommand(),
			cacheCommand(),
			serveCommand(),
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}

func readCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Print a document to stdout, fetching it if not cached",
		ArgsUsage: "<number | rfc<number> | draft-name>",
		Action: func(ctx *cli.Context) error {
			doc, err := parseArg(ctx.Args().First())
			if err != nil {
				return err
			}
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			content, _, _, err := client.Get(ctx.Context, doc)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(content)
			return err
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the IETF datatracker by document title",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Restrict results to 'rfc' or 'draft'",
			},
		},
		Action: func(ctx *cli.Context) error {
			query := strings.Join(ctx.Args().Slice(), " ")
			if query == "" {
				return fmt.Errorf("no search query given")
			}
			client := search.New(search.Config{UserAgent: userAgent()})
			results, err := client.Search(ctx.Context, search.Filter{
				Query: query,
				Type:  ctx.String("type"),
				Limit: ctx.Int("limit"),
			})
			if err != nil {
				return err
			}
			for _, result := range results {
				fmt.Printf("%-36s %s\n", result.Name, result.Title)
			}
			return nil
		},
	}
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local document cache",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached documents",
				Action: func(ctx *cli.Context) error {
					c, err := newCache(ctx)
					if err != nil {
						return err
					}
					for _, doc := range c.List() {
						fmt.Println(doc.CanonicalName())
					}
					return nil
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a document from the cache",
				ArgsUsage: "<number | rfc<number> | draft-name>",
				Action: func(ctx *cli.Context) error {
					doc, err := parseArg(ctx.Args().First())
					if err != nil {
						return err
					}
					c, err := newCache(ctx)
					if err != nil {
						return err
					}
					removed, err := c.Remove(doc)
					if err != nil {
						return err
					}
					if !removed {
						return fmt.Errorf("%s is not cached", doc.CanonicalName())
					}
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Remove all cached documents",
				Action: func(ctx *cli.Context) error {
					c, err := newCache(ctx)
					if err != nil {
						return err
					}
					return c.Clear()
				},
			},
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve documents over HTTP, sharing the local cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Value:   ":8080",
				Usage:   "Address to listen on",
			},
		},
		Action: func(ctx *cli.Context) error {
			client, err := newClient(ctx)
			if err != nil {
				return err
			}
			listen := ctx.String("listen")
			if conf, err := getConfig(configPath(ctx)); err == nil && conf.Listen != "" && !ctx.IsSet("listen") {
				listen = conf.Listen
			}
			s := server.New(server.Config{Client: client})
			return s.ListenAndServe(listen)
		},
	}
}

func newClient(ctx *cli.Context) (*rfc.Client, error) {
	c, err := newCache(ctx)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.New(fetch.Config{UserAgent: userAgent()})
	return rfc.NewClient(rfc.Config{Cache: c, Fetcher: fetcher}), nil
}

func newCache(ctx *cli.Context) (*cache.Cache, error) {
	dir := ctx.String("cache-dir")
	if dir == "" {
		if conf, err := getConfig(configPath(ctx)); err == nil {
			dir = conf.CacheDir
		}
	}
	return cache.New(dir)
}

func userAgent() string {
	return "rfc/" + version
}

// parseArg turns a user-supplied document reference into an identity.
// Accepted forms: a bare number, "rfc<number>" and draft names.
func parseArg(arg string) (document.Document, error) {
	if arg == "" {
		return nil, fmt.Errorf("no document given")
	}
	if number, err := strconv.Atoi(arg); err == nil && number > 0 {
		return document.RFC{Number: number}, nil
	}
	if doc, ok := document.Parse(strings.ToLower(arg)); ok {
		return doc, nil
	}
	return nil, fmt.Errorf("not a document reference: %q", arg)
}
