package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/okian/contacts/internal/smoke"
	"github.com/okian/contacts/pkg/logger"
)

const defaultWorkerMultiplier = 2

// CLI is the command line of the smoke tool.
type CLI struct {
	URL         string        `help:"Base URL of the service." default:"http://localhost:8080"`
	Contacts    int           `help:"Number of contacts to create." default:"1000" short:"n"`
	Workers     int           `help:"Number of concurrent workers." default:"${workers}" short:"w"`
	Sample      int           `help:"Contacts re-read, updated and removed after creation." default:"100"`
	Timeout     time.Duration `help:"HTTP request timeout." default:"10s"`
	TestTimeout time.Duration `help:"Upper bound for the whole run." default:"10m"`
	Output      string        `help:"Write created contacts to this JSON file." type:"path"`
	LogFormat   string        `help:"Log format." enum:"text,json" default:"text"`
	Verbose     bool          `help:"Enable verbose logging." short:"v"`
}

// Run executes the smoke test.
func (c *CLI) Run(ctx context.Context) error {
	if err := logger.Init(logger.WithFormat(c.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if c.Verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(ctx, c.TestTimeout)
	defer cancel()

	_, err := smoke.Run(ctx, &smoke.Config{
		BaseURL:    c.URL,
		Contacts:   c.Contacts,
		Workers:    c.Workers,
		Sample:     c.Sample,
		Timeout:    c.Timeout,
		OutputFile: c.Output,
		Verbose:    c.Verbose,
	}, logger.Named("smoke"))
	return err
}

func vars() kong.Vars {
	return kong.Vars{"workers": strconv.Itoa(runtime.NumCPU() * defaultWorkerMultiplier)}
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("contacts-smoke"),
		kong.Description("Exercises every contacts endpoint against a running service and verifies the answers."),
		kong.UsageOnError(),
		vars(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
