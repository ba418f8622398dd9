package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/alexghenderson/downloader-ctl/internal/config"
	cw "github.com/alexghenderson/downloader-ctl/internal/tui/configwizard"
)

func handleConfigWizard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("config wizard", flag.ContinueOnError)
	out := fs.String("out", "", "write YAML to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	defaults := &config.Config{
		Version: 1,
		Server:  config.Server{URL: "http://127.0.0.1:8642", TimeoutSeconds: 10},
		Refresh: config.Refresh{IntervalSeconds: 3},
		UI:      config.UI{Theme: "dark"},
		Logging: config.Logging{Level: "info"},
	}
	w := cw.New(defaults)
	p := tea.NewProgram(w)
	m, err := p.Run()
	if err != nil {
		return err
	}
	wiz, ok := m.(*cw.Wizard)
	if !ok {
		return errors.New("unexpected model type from wizard")
	}
	cfg := wiz.Config()
	if cfg == nil {
		return errors.New("no config produced")
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Print(string(b))
		return nil
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote config to %s\n", *out)
	return nil
}
