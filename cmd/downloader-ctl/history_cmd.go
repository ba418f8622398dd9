package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	friendlyerrors "github.com/alexghenderson/downloader-ctl/internal/errors"
	"github.com/alexghenderson/downloader-ctl/internal/journal"
)

// handleHistory prints recent journal entries, newest first. The journal
// is local audit history; this command never touches the control service.
func handleHistory(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to YAML config file")
	limit := fs.Int("limit", 50, "Maximum entries to show")
	jsonOut := fs.Bool("json", false, "Emit JSON instead of a table")
	filter := fs.String("filter", "", "Fuzzy filter on the action target")
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
	if !c.JournalEnabled() {
		return friendlyerrors.NewFriendlyError(
			"The action journal is disabled",
			"Set journal.enabled: true in the config; actions are recorded from then on",
		)
	}

	jrnl, err := journal.Open(c)
	if err != nil {
		return friendlyerrors.JournalError(err)
	}
	defer func() { _ = jrnl.Close() }()

	entries, err := jrnl.Recent(*limit)
	if err != nil {
		return friendlyerrors.JournalError(err)
	}
	if *filter != "" {
		kept := make([]journal.Entry, 0, len(entries))
		for _, e := range entries {
			if fuzzy.MatchFold(*filter, e.Target) || fuzzy.MatchFold(*filter, e.URL) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if *jsonOut {
		if entries == nil {
			entries = []journal.Entry{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("no recorded actions")
		return nil
	}
	fmt.Printf("%-18s  %-8s  %-32s  %-7s  %s\n", "WHEN", "ACTION", "TARGET", "OUTCOME", "DETAIL")
	for _, e := range entries {
		target := e.Target
		if target == "" {
			target = e.URL
		}
		fmt.Printf("%-18s  %-8s  %-32s  %-7s  %s\n",
			humanize.Time(e.At), e.Action, target, e.Outcome, e.Detail)
	}
	fmt.Printf("\n%d entries\n", len(entries))
	return nil
}
