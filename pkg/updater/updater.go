// Package updater runs a single collection update: it asks the generation API for new entries,
// rotating through api keys until one gives usable output, merges them into the stored
// collection and writes it back.
package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/Dev-123-win/my-shayari-content/pkg/config"
	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
	"github.com/Dev-123-win/my-shayari-content/pkg/llm"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/recorder.go -pkg mocks -skip-ensure -fmt goimports . Recorder

var (
	// ErrNoCredentials returned when no usable api key is configured
	ErrNoCredentials = errors.New("no api keys provided")
	// ErrExhausted returned when every api key failed or gave no usable entries
	ErrExhausted = errors.New("all api keys failed")

	errEmptyResponse = errors.New("response has no usable entries")
	errKeysDone      = errors.New("no more keys")
)

// Generator produces raw text for a prompt using the given api key
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Store loads and saves the collection
type Store interface {
	Load() (*domain.Collection, error)
	Save(c *domain.Collection) error
}

// Recorder keeps run history
type Recorder interface {
	RecordRun(ctx context.Context, run *domain.Run) error
}

// Config holds everything a run needs besides its collaborators
type Config struct {
	Keys           []string      // api keys in the order they are tried
	Prompt         string        // passed verbatim to the generator
	MaxPerCategory int           // entries kept per category, DefaultMaxPerCategory if 0
	RetryDelay     time.Duration // pause after a failed key
	Provider       string        // informational, goes to run history
	Model          string        // informational, goes to run history
}

// Result describes a successful run
type Result struct {
	KeyIndex   int // 1-based index of the key that produced the batch
	Attempts   int
	Added      map[domain.Category]int
	Collection *domain.Collection
}

// TotalAdded returns the number of new entries across all categories
func (r *Result) TotalAdded() int {
	total := 0
	for _, n := range r.Added {
		total += n
	}
	return total
}

// Updater performs collection updates
type Updater struct {
	cfg      Config
	gen      Generator
	store    Store
	recorder Recorder
	now      func() time.Time
}

// New makes an updater. recorder is optional and can be nil.
func New(cfg Config, gen Generator, store Store, recorder Recorder) *Updater {
	if cfg.MaxPerCategory <= 0 {
		cfg.MaxPerCategory = DefaultMaxPerCategory
	}
	return &Updater{cfg: cfg, gen: gen, store: store, recorder: recorder, now: time.Now}
}

// Run performs one update. Returns ErrNoCredentials before touching anything if there are no
// keys, and ErrExhausted without writing the collection if no key produced entries.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	keys := config.CleanKeys(u.cfg.Keys...)
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}

	started := u.now()
	collection, err := u.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	batch, keyIndex, attempts, err := u.generate(ctx, keys)
	if err != nil {
		if errors.Is(err, ErrExhausted) {
			u.record(ctx, &domain.Run{StartedAt: started, Attempts: attempts, Status: domain.RunStatusExhausted,
				Total: collection.Total(), Error: err.Error()})
		}
		return nil, err
	}
	lgr.Printf("[DEBUG] key %d returned %d entries", keyIndex, batch.Total())

	added := Merge(collection, batch, u.cfg.MaxPerCategory)
	collection.Meta.UpdatedAt = u.now().UTC().Format(domain.TimeLayout)

	if err := u.store.Save(collection); err != nil {
		return nil, fmt.Errorf("save collection: %w", err)
	}

	res := &Result{KeyIndex: keyIndex, Attempts: attempts, Added: added, Collection: collection}
	u.record(ctx, &domain.Run{StartedAt: started, KeyIndex: keyIndex, Attempts: attempts,
		Status: domain.RunStatusOK, Added: res.TotalAdded(), Total: collection.Total()})

	for _, cat := range domain.Categories() {
		lgr.Printf("[INFO] %s: %d new, %d total", cat, added[cat], len(collection.Entries[cat]))
	}
	return res, nil
}

// generate tries keys in order, stopping at the first one that gives a non-empty batch
func (u *Updater) generate(ctx context.Context, keys []string) (batch domain.Batch, keyIndex, attempts int, err error) {
	var lastErr error
	rpt := repeater.NewFixed(len(keys), u.cfg.RetryDelay)
	doErr := rpt.Do(ctx, func() error {
		if attempts >= len(keys) {
			return errKeysDone
		}
		idx := attempts
		attempts++

		text, genErr := u.gen.Generate(ctx, keys[idx], u.cfg.Prompt)
		if genErr != nil {
			lastErr = genErr
			lgr.Printf("[WARN] key %d/%d failed, switching: %v", idx+1, len(keys), genErr)
			return genErr
		}

		b := llm.ParseResponse(text)
		if b.Empty() {
			lastErr = errEmptyResponse
			lgr.Printf("[WARN] key %d/%d gave no usable entries, switching", idx+1, len(keys))
			return errEmptyResponse
		}
		batch, keyIndex = b, idx+1
		return nil
	}, errKeysDone)

	if batch != nil {
		return batch, keyIndex, attempts, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, 0, attempts, ctxErr
	}
	if lastErr == nil {
		lastErr = doErr
	}
	return nil, 0, attempts, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func (u *Updater) record(ctx context.Context, run *domain.Run) {
	if u.recorder == nil {
		return
	}
	run.FinishedAt = u.now()
	run.Provider = u.cfg.Provider
	run.Model = u.cfg.Model
	if err := u.recorder.RecordRun(ctx, run); err != nil {
		lgr.Printf("[WARN] can't record run history: %v", err)
	}
}
