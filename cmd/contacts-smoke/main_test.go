package main

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func TestCLI(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, vars())
		if err != nil {
			t.Fatal(err)
		}

		if _, err := k.Parse([]string{}); err != nil {
			t.Fatal(err)
		}

		if cli.URL != "http://localhost:8080" {
			t.Errorf("got url %q", cli.URL)
		}
		if cli.Contacts != 1000 || cli.Sample != 100 {
			t.Errorf("got contacts=%d sample=%d", cli.Contacts, cli.Sample)
		}
		if cli.Workers <= 0 {
			t.Errorf("workers should default to a positive value, got %d", cli.Workers)
		}
		if cli.Timeout != 10*time.Second || cli.TestTimeout != 10*time.Minute {
			t.Errorf("got timeout=%s test-timeout=%s", cli.Timeout, cli.TestTimeout)
		}
		if cli.LogFormat != "text" {
			t.Errorf("got log format %q", cli.LogFormat)
		}
	})

	t.Run("flags", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, vars())
		if err != nil {
			t.Fatal(err)
		}

		_, err = k.Parse([]string{
			"--url", "http://contacts:9000",
			"-n", "50",
			"-w", "3",
			"--sample", "5",
			"--timeout", "2s",
			"--log-format", "json",
			"-v",
		})
		if err != nil {
			t.Fatal(err)
		}

		if cli.URL != "http://contacts:9000" || cli.Contacts != 50 || cli.Workers != 3 || cli.Sample != 5 {
			t.Errorf("unexpected parse result: %+v", cli)
		}
		if cli.Timeout != 2*time.Second || cli.LogFormat != "json" || !cli.Verbose {
			t.Errorf("unexpected parse result: %+v", cli)
		}
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, vars())
		if err != nil {
			t.Fatal(err)
		}

		if _, err := k.Parse([]string{"--log-format", "xml"}); err == nil {
			t.Fatal("expected error for unknown log format")
		}
	})
}
