package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/jobscout/internal/app"
	"github.com/kailas-cloud/jobscout/internal/config"
	"github.com/kailas-cloud/jobscout/internal/domain"
	"github.com/kailas-cloud/jobscout/internal/domain/search/mode"
	"github.com/kailas-cloud/jobscout/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/jobscout/internal/logger"
	assistantuc "github.com/kailas-cloud/jobscout/internal/usecase/assistant"
)

// service is the subset of the assistant the commands use.
type service interface {
	Ask(ctx context.Context, req assistantuc.AskRequest) (assistantuc.AskResponse, error)
	Search(ctx context.Context, req *request.Request) (assistantuc.SearchResponse, error)
}

// openFunc builds the service from the global flags. The returned func releases it.
type openFunc func(c *cli.Context) (service, func(), error)

func main() {
	if err := newCLI(openApp).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI(open openFunc) *cli.App {
	return &cli.App{
		Name:  "jobscout-cli",
		Usage: "Ask and search the job posting index from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Config environment (config/<env>.yaml)",
				EnvVars: []string{"ENV"},
				Value:   "local",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Explicit config file path (overrides --env)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print raw JSON instead of text",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Ask a question in natural language",
				ArgsUsage: "<message>",
				Action:    askAction(open),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "search-type",
						Usage: "Retrieval mode: semantic, hybrid or text",
					},
					&cli.StringFlag{
						Name:  "thread-id",
						Usage: "Continue a hosted conversation thread",
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Raw paginated search without intent or selection",
				Action: searchAction(open),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Search query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "search-type",
						Usage: "Retrieval mode: semantic, hybrid or text",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "1-based page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Results per page (max 20)",
						Value: request.DefaultPageSize,
					},
					&cli.Float64Flag{
						Name:  "match-threshold",
						Usage: "Minimum vector similarity (0..1)",
					},
					&cli.IntFlag{
						Name:  "min-score",
						Usage: "Minimum relevance score (1..3)",
						Value: domain.MinVisibleScore,
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Location filter",
					},
					&cli.StringFlag{
						Name:  "company",
						Usage: "Company filter",
					},
				},
			},
		},
	}
}

func askAction(open openFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		message := strings.Join(c.Args().Slice(), " ")
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("message is required")
		}

		svc, closeFn, err := open(c)
		if err != nil {
			return err
		}
		defer closeFn()

		resp, err := svc.Ask(c.Context, assistantuc.AskRequest{
			Message:  message,
			Mode:     mode.Mode(c.String("search-type")),
			ThreadID: c.String("thread-id"),
		})
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}

		w := c.App.Writer
		if c.Bool("json") {
			return writeJSON(w, resp)
		}
		fmt.Fprintln(w, resp.ResponseText)
		if len(resp.Postings) > 0 {
			fmt.Fprintln(w)
			printPostings(w, resp.Postings, 1)
		}
		fmt.Fprintf(w, "\n[%s · %s · %s]\n", resp.Intent, resp.Strategy, resp.SelectionMethod)
		if resp.ThreadID != "" {
			fmt.Fprintf(w, "thread: %s\n", resp.ThreadID)
		}
		return nil
	}
}

func searchAction(open openFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		req, err := request.New(request.Params{
			Query:          c.String("query"),
			Mode:           mode.Mode(c.String("search-type")),
			Page:           c.Int("page"),
			PageSize:       c.Int("page-size"),
			MatchThreshold: c.Float64("match-threshold"),
			MinScore:       c.Int("min-score"),
			LocationFilter: c.String("location"),
			CompanyFilter:  c.String("company"),
		})
		if err != nil {
			return err
		}

		svc, closeFn, err := open(c)
		if err != nil {
			return err
		}
		defer closeFn()

		resp, err := svc.Search(c.Context, &req)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}

		w := c.App.Writer
		if c.Bool("json") {
			return writeJSON(w, resp)
		}
		if len(resp.Items) == 0 {
			fmt.Fprintln(w, "Ingen resultater.")
			return nil
		}
		printPostings(w, resp.Items, req.Offset()+1)
		fmt.Fprintf(w, "\nside %d · %d i alt · strategi %s", resp.Page, resp.Total, resp.Strategy)
		if resp.HasMore {
			fmt.Fprint(w, " · flere resultater")
		}
		fmt.Fprintln(w)
		return nil
	}
}

func printPostings(w io.Writer, postings []domain.JobPosting, first int) {
	for i, p := range postings {
		fmt.Fprintf(w, "%d. %s, %s, %s (relevans %d, %s)\n",
			first+i, p.Title, p.Company, p.Location, p.RelevanceScore, p.PublicationDate.Format("2006-01-02"))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openApp loads the config and wires the real services.
func openApp(c *cli.Context) (service, func(), error) {
	env := c.String("env")

	var (
		cfg config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, nil, err
	}

	logger, err := logpkg.NewLogger("cli")
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := app.New(c.Context, &cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return a.Assistant, func() {
		a.Close()
		_ = logger.Sync()
	}, nil
}
