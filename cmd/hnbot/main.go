package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v2"

	"github.com/alphabot-ai/hnbot/internal/client"
	"github.com/alphabot-ai/hnbot/internal/config"
	"github.com/alphabot-ai/hnbot/internal/extract"
	"github.com/alphabot-ai/hnbot/internal/hn"
	httpapp "github.com/alphabot-ai/hnbot/internal/http"
	"github.com/alphabot-ai/hnbot/internal/model"
	"github.com/alphabot-ai/hnbot/internal/news"
	"github.com/alphabot-ai/hnbot/internal/tools"
)

// Build identity, stamped via -ldflags.
var (
	version   = "dev"
	commit    = ""
	buildTime = ""
)

func main() {
	app := &cli.App{
		Name:  "hnbot",
		Usage: "read-only Hacker News aggregation service and client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"HNBOT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "hnbot server base URL for client commands",
				EnvVars: []string{"HNBOT_SERVER"},
			},
		},
		// Bare invocation runs the server, like most of our services.
		Action: func(c *cli.Context) error {
			return runServer(c.String("config"))
		},
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server"},
				Usage:   "run the API server",
				Action: func(c *cli.Context) error {
					return runServer(c.String("config"))
				},
			},
			{
				Name:      "read",
				Usage:     "read a story list (top, new, best, ask, show, job)",
				ArgsUsage: "[kind]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10},
				},
				Action: cmdRead,
			},
			{
				Name:      "item",
				Usage:     "show one item by id",
				ArgsUsage: "<id>",
				Action:    cmdItem,
			},
			{
				Name:      "user",
				Usage:     "show a user profile",
				ArgsUsage: "<username>",
				Action:    cmdUser,
			},
			{
				Name:      "search",
				Usage:     "find stories by title",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 5},
				},
				Action: cmdSearch,
			},
			{
				Name:      "thread",
				Usage:     "show a story with its comment tree",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "comments", Value: 10, Usage: "comments per level"},
					&cli.IntFlag{Name: "depth", Value: 2, Usage: "reply depth"},
				},
				Action: cmdThread,
			},
			{
				Name:      "content",
				Usage:     "fetch a story's linked page as readable text",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "markdown", Usage: "markdown, text, or json"},
				},
				Action: cmdContent,
			},
			{
				Name:  "bydate",
				Usage: "list stories posted within a UTC day bucket",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days-ago", Value: 0},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 10},
				},
				Action: cmdByDate,
			},
			{
				Name:   "maxitem",
				Usage:  "show the current largest item id",
				Action: cmdMaxItem,
			},
			{
				Name:   "updates",
				Usage:  "show recently changed items and profiles",
				Action: cmdUpdates,
			},
			{
				Name:   "tools",
				Usage:  "list the callable tools",
				Action: cmdTools,
			},
			{
				Name:   "prompts",
				Usage:  "list the prompt templates",
				Action: cmdPrompts,
			},
			{
				Name:   "status",
				Usage:  "check server health and version",
				Action: cmdStatus,
			},
			{
				Name:  "version",
				Usage: "print build identity",
				Action: func(c *cli.Context) error {
					fmt.Printf("hnbot %s", version)
					if commit != "" {
						fmt.Printf(" (%s)", commit)
					}
					fmt.Println()
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Version = version
	cfg.Commit = commit
	cfg.BuildTime = buildTime

	fetcher := hn.New(cfg.HNBaseURL, cfg.HNTimeout)
	fetcher.APIKey = cfg.HNAPIKey
	svc := news.NewService(fetcher, news.Options{
		FanoutWidth:  cfg.FanoutWidth,
		ListLimit:    cfg.ListLimit,
		SearchPool:   cfg.SearchPool,
		DatePool:     cfg.DatePool,
		CommentLimit: cfg.CommentLimit,
		MaxDepth:     cfg.MaxDepth,
	})
	ex := extract.New(cfg.ExtractTimeout)
	reg := tools.New(svc, ex)

	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL,
			nats.Name("hnbot"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second))
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Close()
		ns, err := tools.ServeNATS(nc, reg, cfg.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("serve nats: %w", err)
		}
		defer ns.Close()
	}

	server := httpapp.NewServer(svc, reg, ex, cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("hnbot listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func apiClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"))
}

func cmdRead(c *cli.Context) error {
	kind := c.Args().First()
	if kind == "" {
		kind = "top"
	}
	stories, err := apiClient(c).GetStories(kind, c.Int("limit"))
	if err != nil {
		return err
	}
	for i, story := range stories {
		fmt.Printf("%2d. %s (%d points by %s)\n", i+1, story.Title, story.Score, story.By)
		if story.URL != "" {
			fmt.Printf("    %s\n", story.URL)
		}
		fmt.Printf("    id %d, %d comments\n", story.ID, story.Descendants)
	}
	return nil
}

func cmdItem(c *cli.Context) error {
	id, err := requireIntArg(c, "item id")
	if err != nil {
		return err
	}
	item, err := apiClient(c).GetItem(id)
	if err != nil {
		return err
	}
	return printJSON(item)
}

func cmdUser(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return cli.Exit("username required", 1)
	}
	user, err := apiClient(c).GetUser(username)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func cmdSearch(c *cli.Context) error {
	query := c.Args().First()
	if query == "" {
		return cli.Exit("query required", 1)
	}
	matches, err := apiClient(c).SearchStories(query, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("[%d] %s (id %d)\n", m.Score, m.Item.Title, m.Item.ID)
	}
	return nil
}

func cmdThread(c *cli.Context) error {
	id, err := requireIntArg(c, "story id")
	if err != nil {
		return err
	}
	thread, err := apiClient(c).GetStoryThread(id, c.Int("comments"), c.Int("depth"))
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d points by %s)\n\n", thread.Story.Title, thread.Story.Score, thread.Story.By)
	printComments(thread.Comments, 0)
	return nil
}

func cmdContent(c *cli.Context) error {
	id, err := requireIntArg(c, "story id")
	if err != nil {
		return err
	}
	result, err := apiClient(c).GetStoryContent(id, c.String("format"))
	if err != nil {
		return err
	}
	if !result.OK {
		return cli.Exit("extraction failed: "+result.Reason, 1)
	}
	fmt.Println(result.Content)
	return nil
}

func cmdByDate(c *cli.Context) error {
	stories, err := apiClient(c).GetStoriesByDate(c.Int("days-ago"), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, story := range stories {
		posted := time.Unix(story.Time, 0).UTC().Format("15:04")
		fmt.Printf("%s  %s (id %d)\n", posted, story.Title, story.ID)
	}
	return nil
}

func cmdMaxItem(c *cli.Context) error {
	id, err := apiClient(c).GetMaxItemID()
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func cmdUpdates(c *cli.Context) error {
	upd, err := apiClient(c).GetUpdates()
	if err != nil {
		return err
	}
	return printJSON(upd)
}

func cmdTools(c *cli.Context) error {
	infos, err := apiClient(c).ListTools()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%-28s %s\n", info.Name, info.Description)
	}
	return nil
}

func cmdPrompts(c *cli.Context) error {
	infos, err := apiClient(c).ListPrompts()
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%-32s %s\n", info.Name, info.Description)
	}
	return nil
}

func cmdStatus(c *cli.Context) error {
	api := apiClient(c)
	if err := api.Health(); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	ver, err := api.Version()
	if err != nil {
		return err
	}
	fmt.Printf("server ok, version %v\n", ver["version"])
	return nil
}

func requireIntArg(c *cli.Context, what string) (int, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, cli.Exit(what+" required", 1)
	}
	var id int
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil || id <= 0 {
		return 0, cli.Exit("invalid "+what, 1)
	}
	return id, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printComments(nodes []model.CommentNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		fmt.Printf("%s- %s: %s\n", indent, node.Comment.By, snippet(node.Comment.Text, 120))
		printComments(node.Replies, depth+1)
	}
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
