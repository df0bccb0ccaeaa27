package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/contacts/pkg/logger"
)

// Run executes the complete smoke test and returns its statistics. The
// returned Stats are filled as far as the run got, even on error.
func Run(ctx context.Context, config *Config, log logger.Logger) (*Stats, error) {
	cfg := config.withDefaults()
	stats := &Stats{StartTime: time.Now()}
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting contacts smoke test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("contacts", cfg.Contacts),
		logger.Int("workers", cfg.Workers),
		logger.Int("sample", cfg.Sample),
		logger.Duration("timeout", cfg.Timeout),
	)

	finish := func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
	}
	defer finish()

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	log.Info(ctx, "service is healthy")

	// Step 2: Generate contacts
	inputs, err := generateContacts(ctx, cfg.Contacts, stats, log)
	if err != nil {
		return stats, fmt.Errorf("contact generation failed: %w", err)
	}

	// Step 3: Create contacts concurrently
	created := createContacts(ctx, client, cfg, inputs, stats, log)
	if stats.CreateFailed > 0 {
		return stats, fmt.Errorf("%w: %d of %d creates failed", ErrVerification, stats.CreateFailed, len(inputs))
	}

	// Step 4: Every created contact must be listed
	if err := verifyListed(ctx, client, created, stats); err != nil {
		return stats, err
	}

	// The sample is rewritten by the update step; created keeps the
	// as-created records for the output file.
	sample := slices.Clone(created[:cfg.Sample])

	// Step 5: Reads must round-trip
	if err := verifyReads(ctx, client, sample, stats); err != nil {
		return stats, err
	}

	// Step 6: Updates must overwrite every field
	if err := verifyUpdates(ctx, client, sample, stats); err != nil {
		return stats, err
	}

	// Step 7: Removal must be permanent
	if err := verifyRemovals(ctx, client, sample, stats); err != nil {
		return stats, err
	}

	// Step 8: Save contacts to file
	if cfg.OutputFile != "" {
		if err := saveContacts(cfg.OutputFile, created); err != nil {
			log.Warn(ctx, "failed to save contacts to file", logger.Error(err))
		} else {
			log.Info(ctx, "contacts saved to file", logger.String("filename", cfg.OutputFile))
		}
	}

	finish()
	displayFinalStats(ctx, stats, log)
	return stats, nil
}

// createContacts submits inputs through a worker pool and returns the
// created records in input order. Failed creates leave a zero Contact.
func createContacts(ctx context.Context, client *HTTPClient, cfg Config, inputs []ContactInput, stats *Stats, log logger.Logger) []Contact {
	log.Info(ctx, "creating contacts", logger.Int("count", len(inputs)), logger.Int("workers", cfg.Workers))

	type job struct {
		idx int
		in  ContactInput
	}

	var (
		created int64
		failed  int64
	)
	out := make([]Contact, len(inputs))
	jobs := make(chan job, cfg.Workers*workerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				c, err := client.Create(ctx, j.in)
				if err != nil || c.ID == "" || !c.Matches(j.in) {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Warn(ctx, "create failed", logger.Int("index", j.idx), logger.Any("error", err))
					}
					continue
				}
				out[j.idx] = c
				atomic.AddInt64(&created, 1)
			}
		}()
	}

	// Progress reporting
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				log.Info(ctx, "progress",
					logger.Int("created", int(atomic.LoadInt64(&created))),
					logger.Int("failed", int(atomic.LoadInt64(&failed))),
					logger.Int("total", len(inputs)),
				)
			}
		}
	}()

	func() {
		defer close(jobs)
		for i, in := range inputs {
			select {
			case <-ctx.Done():
				atomic.AddInt64(&failed, int64(len(inputs)-i))
				return
			case jobs <- job{idx: i, in: in}:
			}
		}
	}()
	wg.Wait()
	close(done)

	stats.Created = int(atomic.LoadInt64(&created))
	stats.CreateFailed = int(atomic.LoadInt64(&failed))
	log.Info(ctx, "contact creation completed",
		logger.Int("created", stats.Created),
		logger.Int("failed", stats.CreateFailed),
	)
	return out
}

func verifyListed(ctx context.Context, client *HTTPClient, created []Contact, stats *Stats) error {
	all, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}
	stats.Listed = len(all)

	byID := make(map[string]Contact, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	for _, want := range created {
		got, ok := byID[want.ID]
		if !ok {
			return fmt.Errorf("%w: contact %s missing from list", ErrVerification, want.ID)
		}
		if got != want {
			return fmt.Errorf("%w: listed contact %s differs: got %+v, want %+v", ErrVerification, want.ID, got, want)
		}
	}
	return nil
}

func verifyReads(ctx context.Context, client *HTTPClient, sample []Contact, stats *Stats) error {
	for _, want := range sample {
		first, found, err := client.Get(ctx, want.ID)
		if err != nil {
			return fmt.Errorf("get %s failed: %w", want.ID, err)
		}
		if !found {
			return fmt.Errorf("%w: contact %s not found", ErrVerification, want.ID)
		}
		second, _, err := client.Get(ctx, want.ID)
		if err != nil {
			return fmt.Errorf("get %s failed: %w", want.ID, err)
		}
		if first != want || second != first {
			return fmt.Errorf("%w: contact %s does not round-trip", ErrVerification, want.ID)
		}
		stats.Verified++
	}
	return nil
}

func verifyUpdates(ctx context.Context, client *HTTPClient, sample []Contact, stats *Stats) error {
	for i := range sample {
		// Only the name is sent, so the other fields must come back empty.
		in := ContactInput{Name: randomContact().Name}
		got, found, err := client.Update(ctx, sample[i].ID, in)
		if err != nil {
			return fmt.Errorf("update %s failed: %w", sample[i].ID, err)
		}
		if !found {
			return fmt.Errorf("%w: contact %s not found for update", ErrVerification, sample[i].ID)
		}
		if got.ID != sample[i].ID || !got.Matches(in) {
			return fmt.Errorf("%w: update of %s did not overwrite: got %+v", ErrVerification, sample[i].ID, got)
		}
		sample[i] = got
		stats.Updated++
	}
	return nil
}

func verifyRemovals(ctx context.Context, client *HTTPClient, sample []Contact, stats *Stats) error {
	for _, c := range sample {
		found, err := client.Delete(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("delete %s failed: %w", c.ID, err)
		}
		if !found {
			return fmt.Errorf("%w: contact %s not found for delete", ErrVerification, c.ID)
		}
		if _, found, err := client.Get(ctx, c.ID); err != nil || found {
			return fmt.Errorf("%w: contact %s still readable after delete", ErrVerification, c.ID)
		}
		if found, err := client.Delete(ctx, c.ID); err != nil || found {
			return fmt.Errorf("%w: contact %s removed twice", ErrVerification, c.ID)
		}
		stats.Removed++
	}
	return nil
}

// saveContacts writes contacts to filename as a JSON array.
func saveContacts(filename string, contacts []Contact) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats, log logger.Logger) {
	var createsPerSecond float64
	if stats.Duration > 0 {
		createsPerSecond = float64(stats.Created) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("created", stats.Created),
		logger.Int("createFailed", stats.CreateFailed),
		logger.Int("listed", stats.Listed),
		logger.Int("verified", stats.Verified),
		logger.Int("updated", stats.Updated),
		logger.Int("removed", stats.Removed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("createsPerSecond", createsPerSecond),
	)
}
