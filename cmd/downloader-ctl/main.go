package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/alexghenderson/downloader-ctl/internal/batch"
	"github.com/alexghenderson/downloader-ctl/internal/config"
	friendlyerrors "github.com/alexghenderson/downloader-ctl/internal/errors"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
	"github.com/alexghenderson/downloader-ctl/internal/logging"
	"github.com/alexghenderson/downloader-ctl/internal/remote"
	"github.com/alexghenderson/downloader-ctl/internal/util"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	remote.Version = version
	if len(args) == 0 {
		usage()
		return errors.New("no command provided")
	}

	cmd := args[0]
	switch cmd {
	case "tui":
		return handleTUI(ctx, args[1:])
	case "list":
		return handleList(ctx, args[1:])
	case "add":
		return handleAdd(ctx, args[1:])
	case "ctl":
		return handleCtl(ctx, args[1:])
	case "history":
		return handleHistory(ctx, args[1:])
	case "doctor":
		return handleDoctor(ctx, args[1:])
	case "config":
		return handleConfig(ctx, args[1:])
	case "batch":
		return handleBatch(ctx, args[1:])
	case "completion":
		return handleCompletion(ctx, args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage() {
	fmt.Println(strings.TrimSpace(`downloader-ctl - terminal dashboard for a download-control service

Usage:
  downloader-ctl <command> [flags]

Commands:
  tui               Open the interactive dashboard
  list              One-shot download listing (table or JSON)
  add               Ask the service to start a new download (--url or --batch)
  ctl               Send stop/restart/pause for a named download
  history           Show recent operator actions from the journal
  doctor            Run environment and connectivity diagnostics
  config validate   Validate a YAML config file
  config print      Print the loaded config as JSON
  config wizard     Interactive TUI to generate a YAML config
  batch import      Convert a text file of URLs into a YAML batch
  completion        Generate shell completion scripts (bash|zsh|fish)
  version           Print version
  help              Show this help

Flags:
  --config PATH     Path to YAML config file (or DOWNLOADER_CTL_CONFIG env var; default: ~/.config/downloader-ctl/config.yml)
  --url URL         Control service base URL (or DOWNLOADER_CTL_URL env var; default: server.url from the config)
`))
}

// loadOptionalConfig loads the resolved config file when it exists.
// One-shot commands can run from --url or the env alone, so a missing
// file is fine here; a broken one still fails.
func loadOptionalConfig(flagPath string) (*config.Config, error) {
	path, err := config.ResolvePath(flagPath)
	if err != nil {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return config.Load(path)
}

func newClient(flagURL string, c *config.Config) (*remote.Client, error) {
	base, err := config.BaseURL(flagURL, c)
	if err != nil {
		return nil, err
	}
	timeout := 10 * time.Second
	if c != nil && c.Server.TimeoutSeconds > 0 {
		timeout = time.Duration(c.Server.TimeoutSeconds) * time.Second
	}
	return remote.New(base, timeout), nil
}

// openJournal is the one-shot variant: a journal problem is worth a
// warning but never blocks the command that triggered it.
func openJournal(c *config.Config) *journal.DB {
	jrnl, err := journal.Open(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: action journal unavailable: %v\n", err)
		return nil
	}
	return jrnl
}

func recordAction(jrnl *journal.DB, action, target, url string, actErr error) {
	outcome := journal.OutcomeOK
	detail := ""
	if actErr != nil {
		outcome = journal.OutcomeError
		detail = actErr.Error()
	}
	if err := jrnl.Record(journal.Entry{Action: action, Target: target, URL: url, Outcome: outcome, Detail: detail}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal write failed: %v\n", err)
	}
}

func handleList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	urlFlag := fs.String("url", "", "Control service base URL")
	jsonOut := fs.Bool("json", false, "print the download list as JSON")
	filter := fs.String("filter", "", "keep downloads whose name fuzzy-matches this pattern")
	onlyErrors := fs.Bool("only-errors", false, "show only Error and Offline downloads")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := loadOptionalConfig(*cfgPath)
	if err != nil {
		return err
	}
	client, err := newClient(*urlFlag, c)
	if err != nil {
		return err
	}
	downloads, err := client.ListDownloads(ctx)
	if err != nil {
		return friendlyerrors.ClassifyRemote(err)
	}
	if *onlyErrors {
		var keep []remote.Download
		for _, d := range downloads {
			if d.Status.Kind == remote.StatusError || d.Status.Kind == remote.StatusOffline {
				keep = append(keep, d)
			}
		}
		downloads = keep
	}
	if *filter != "" {
		var keep []remote.Download
		for _, d := range downloads {
			if fuzzy.MatchFold(*filter, d.Name) {
				keep = append(keep, d)
			}
		}
		downloads = keep
	}
	if *jsonOut {
		if downloads == nil {
			downloads = []remote.Download{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(downloads)
	}
	if len(downloads) == 0 {
		fmt.Println("no downloads")
		return nil
	}
	fmt.Printf("%-32s  %-24s  %-14s  %-14s  %7s\n", "NAME", "STATUS", "STARTED", "CHANGED", "RETRIES")
	for _, d := range downloads {
		fmt.Printf("%-32s  %-24s  %-14s  %-14s  %7d\n",
			d.Name, d.Status.String(), ago(d.StartedAt), ago(d.LastStatusChange), d.RetryCount)
	}
	fmt.Printf("\n%d downloads\n", len(downloads))
	return nil
}

func handleAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	urlFlag := fs.String("url", "", "URL of the file the service should download")
	batchPath := fs.String("batch", "", "YAML batch file of URLs to add (see 'batch import')")
	parallel := fs.Int("parallel", 4, "concurrent creates in batch mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*urlFlag == "") == (*batchPath == "") {
		return errors.New("exactly one of --url or --batch is required")
	}
	c, err := loadOptionalConfig(*cfgPath)
	if err != nil {
		return err
	}
	// For add, --url names the download; the service URL comes from the
	// env or the config only.
	client, err := newClient("", c)
	if err != nil {
		if os.Getenv(config.EnvURL) == "" && (c == nil || strings.TrimSpace(c.Server.URL) == "") {
			return fmt.Errorf("no control service URL: set %s or server.url in the config ('add --url' names the download, not the service)", config.EnvURL)
		}
		return err
	}
	jrnl := openJournal(c)
	defer func() { _ = jrnl.Close() }()

	if *urlFlag != "" {
		err := client.CreateDownload(ctx, *urlFlag)
		recordAction(jrnl, "create", "", *urlFlag, err)
		if err != nil {
			return friendlyerrors.ClassifyRemote(err)
		}
		fmt.Printf("add requested: %s\n", util.URLPathBase(*urlFlag))
		return nil
	}

	bf, err := batch.Load(*batchPath)
	if err != nil {
		return err
	}
	workers := *parallel
	if workers < 1 {
		workers = 1
	}
	if workers > len(bf.Jobs) {
		workers = len(bf.Jobs)
	}
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan batch.Job)
	var mu sync.Mutex
	added, failed := 0, 0
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				err := client.CreateDownload(gctx, j.URL)
				mu.Lock()
				recordAction(jrnl, "create", "", j.URL, err)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "add failed: %s: %v\n", j.URL, err)
				} else {
					added++
					fmt.Printf("add requested: %s\n", util.URLPathBase(j.URL))
				}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(jobs)
		for _, j := range bf.Jobs {
			select {
			case jobs <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("%d added, %d failed\n", added, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d creates failed", failed, len(bf.Jobs))
	}
	return nil
}

func handleCtl(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ctl", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	urlFlag := fs.String("url", "", "Control service base URL")
	name := fs.String("name", "", "download name as shown by 'list'")
	action := fs.String("action", "", "control action: stop|restart|pause")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("--name is required")
	}
	act, err := remote.ParseAction(*action)
	if err != nil {
		return err
	}
	c, err := loadOptionalConfig(*cfgPath)
	if err != nil {
		return err
	}
	client, err := newClient(*urlFlag, c)
	if err != nil {
		return err
	}
	jrnl := openJournal(c)
	defer func() { _ = jrnl.Close() }()

	ctlErr := client.ApplyControl(ctx, *name, act)
	recordAction(jrnl, string(act), *name, "", ctlErr)
	if ctlErr != nil {
		return friendlyerrors.ClassifyRemote(ctlErr)
	}
	fmt.Printf("%s requested: %s\n", act, *name)
	return nil
}

func handleConfig(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("config subcommand required: validate | print | wizard")
	}
	sub := args[0]
	switch sub {
	case "validate":
		return configOp(args[1:], func(c *config.Config, log *logging.Logger) error {
			if err := c.ValidateWithFriendlyErrors(); err != nil {
				return err
			}
			log.Infof("config: valid")
			return nil
		})
	case "print":
		return configOp(args[1:], func(c *config.Config, log *logging.Logger) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		})
	case "wizard":
		return handleConfigWizard(ctx, args[1:])
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}

func configOp(args []string, fn func(*config.Config, *logging.Logger) error) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	logLevel := fs.String("log-level", "info", "log level")
	jsonOut := fs.Bool("json", false, "json logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := config.ResolvePath(*cfgPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file not found: %s (run 'downloader-ctl config wizard')", path)
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	log := logging.New(*logLevel, *jsonOut)
	return fn(c, log)
}

func ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}
