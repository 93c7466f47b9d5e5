package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
	"github.com/Dev-123-win/my-shayari-content/pkg/store"
	"github.com/Dev-123-win/my-shayari-content/pkg/updater/mocks"
)

const goodAnswer = "```json\n{\"love\":[\"b\",\"c\"],\"sad\":[\"s1\"]}\n```"

func memStore(c *domain.Collection) *mocks.StoreMock {
	return &mocks.StoreMock{
		LoadFunc: func() (*domain.Collection, error) { return c, nil },
		SaveFunc: func(*domain.Collection) error { return nil },
	}
}

func fixedTime() time.Time {
	return time.Date(2024, 2, 3, 4, 5, 6, 789000, time.FixedZone("IST", 19800))
}

func TestUpdater_Run(t *testing.T) {
	existing := domain.NewCollection()
	existing.Entries[domain.CategoryLove] = []string{"a", "b"}
	existing.Meta.UpdatedAt = "2000-01-01T00:00:00.000000Z"
	st := memStore(existing)

	gen := &mocks.GeneratorMock{GenerateFunc: func(_ context.Context, apiKey, prompt string) (string, error) {
		return goodAnswer, nil
	}}

	u := New(Config{Keys: []string{" key1 "}, Prompt: "the prompt", RetryDelay: time.Millisecond}, gen, st, nil)
	u.now = fixedTime

	res, err := u.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.KeyIndex)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, res.Added[domain.CategoryLove])
	assert.Equal(t, 1, res.Added[domain.CategorySad])
	assert.Equal(t, 2, res.TotalAdded())

	require.Len(t, gen.GenerateCalls(), 1)
	assert.Equal(t, "key1", gen.GenerateCalls()[0].APIKey)
	assert.Equal(t, "the prompt", gen.GenerateCalls()[0].Prompt)

	require.Len(t, st.SaveCalls(), 1)
	saved := st.SaveCalls()[0].C
	assert.Equal(t, []string{"a", "b", "c"}, saved.Entries[domain.CategoryLove])
	assert.Equal(t, []string{"s1"}, saved.Entries[domain.CategorySad])
	assert.Empty(t, saved.Entries[domain.CategoryFestival])
	assert.Equal(t, "2024-02-02T22:35:06.000789Z", saved.Meta.UpdatedAt)
}

func TestUpdater_NoCredentials(t *testing.T) {
	for _, keys := range [][]string{nil, {}, {""}, {" ", ","}} {
		gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
			t.Fatal("generator must not be called")
			return "", nil
		}}
		st := memStore(domain.NewCollection())

		_, err := New(Config{Keys: keys}, gen, st, nil).Run(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)
		assert.Empty(t, gen.GenerateCalls())
		assert.Empty(t, st.LoadCalls(), "nothing is loaded before credentials are checked")
		assert.Empty(t, st.SaveCalls())
	}
}

func TestUpdater_Rotation(t *testing.T) {
	t.Run("failing keys are skipped", func(t *testing.T) {
		gen := &mocks.GeneratorMock{GenerateFunc: func(_ context.Context, apiKey, _ string) (string, error) {
			switch apiKey {
			case "bad1":
				return "", errors.New("quota exceeded")
			case "bad2":
				return "", errors.New("permission denied")
			}
			return goodAnswer, nil
		}}
		st := memStore(domain.NewCollection())

		res, err := New(Config{Keys: []string{"bad1", "bad2", "good", "unused"}, RetryDelay: time.Millisecond}, gen, st, nil).
			Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, res.KeyIndex)
		assert.Equal(t, 3, res.Attempts)
		require.Len(t, gen.GenerateCalls(), 3)
		assert.Equal(t, "bad1", gen.GenerateCalls()[0].APIKey)
		assert.Equal(t, "bad2", gen.GenerateCalls()[1].APIKey)
		assert.Equal(t, "good", gen.GenerateCalls()[2].APIKey)
	})

	t.Run("unusable responses are skipped", func(t *testing.T) {
		answers := map[string]string{
			"k1": "I'm sorry, I can't do that",
			"k2": `{"love":[],"sad":[]}`,
			"k3": goodAnswer,
		}
		gen := &mocks.GeneratorMock{GenerateFunc: func(_ context.Context, apiKey, _ string) (string, error) {
			return answers[apiKey], nil
		}}

		res, err := New(Config{Keys: []string{"k1", "k2", "k3"}}, gen, memStore(domain.NewCollection()), nil).
			Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, res.KeyIndex)
	})

	t.Run("delay between failed keys", func(t *testing.T) {
		gen := &mocks.GeneratorMock{GenerateFunc: func(_ context.Context, apiKey, _ string) (string, error) {
			if apiKey == "bad" {
				return "", errors.New("network down")
			}
			return goodAnswer, nil
		}}

		st := time.Now()
		_, err := New(Config{Keys: []string{"bad", "good"}, RetryDelay: 50 * time.Millisecond}, gen,
			memStore(domain.NewCollection()), nil).Run(context.Background())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(st), 50*time.Millisecond)
	})
}

func TestUpdater_Exhausted(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	st := memStore(domain.NewCollection())
	rec := &mocks.RecorderMock{RecordRunFunc: func(context.Context, *domain.Run) error { return nil }}

	u := New(Config{Keys: []string{"k1", "k2", "k3"}, RetryDelay: time.Millisecond, Model: "m"}, gen, st, rec)
	res, err := u.Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Len(t, gen.GenerateCalls(), 3)
	assert.Empty(t, st.SaveCalls(), "collection must not be written")

	require.Len(t, rec.RecordRunCalls(), 1)
	run := rec.RecordRunCalls()[0].Run
	assert.Equal(t, domain.RunStatusExhausted, run.Status)
	assert.Equal(t, 3, run.Attempts)
	assert.Equal(t, 0, run.KeyIndex)
	assert.Equal(t, "m", run.Model)
}

func TestUpdater_ExhaustedOnEmptyResponses(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return "not json", nil
	}}
	st := memStore(domain.NewCollection())

	_, err := New(Config{Keys: []string{"k1", "k2"}}, gen, st, nil).Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)
	assert.Len(t, gen.GenerateCalls(), 2)
	assert.Empty(t, st.SaveCalls())
}

func TestUpdater_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		cancel()
		return "", errors.New("boom")
	}}
	st := memStore(domain.NewCollection())

	_, err := New(Config{Keys: []string{"k1", "k2"}, RetryDelay: time.Second}, gen, st, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.GenerateCalls(), 1)
	assert.Empty(t, st.SaveCalls())
}

func TestUpdater_StoreErrors(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return goodAnswer, nil
	}}

	t.Run("load", func(t *testing.T) {
		st := &mocks.StoreMock{LoadFunc: func() (*domain.Collection, error) { return nil, errors.New("bad file") }}
		_, err := New(Config{Keys: []string{"k"}}, gen, st, nil).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load collection")
		assert.NotErrorIs(t, err, ErrExhausted)
	})

	t.Run("save", func(t *testing.T) {
		st := memStore(domain.NewCollection())
		st.SaveFunc = func(*domain.Collection) error { return errors.New("read-only fs") }
		_, err := New(Config{Keys: []string{"k"}}, gen, st, nil).Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save collection")
	})
}

func TestUpdater_RecorderFailureIgnored(t *testing.T) {
	gen := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return goodAnswer, nil
	}}
	rec := &mocks.RecorderMock{RecordRunFunc: func(context.Context, *domain.Run) error { return errors.New("db locked") }}

	u := New(Config{Keys: []string{"a", "b"}, Provider: "gemini", Model: "gemini-1.5-flash"}, gen, memStore(domain.NewCollection()), rec)
	res, err := u.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Collection.Total())

	require.Len(t, rec.RecordRunCalls(), 1)
	run := rec.RecordRunCalls()[0].Run
	assert.Equal(t, domain.RunStatusOK, run.Status)
	assert.Equal(t, 1, run.KeyIndex)
	assert.Equal(t, 3, run.Added)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, "gemini", run.Provider)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestUpdater_WithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "online_shayari.json")
	fs := store.NewFileStore(path)

	seed := domain.NewCollection()
	seed.Entries[domain.CategoryLove] = []string{"a"}
	require.NoError(t, fs.Save(seed))

	failing := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return "", errors.New("down")
	}}
	_, err := New(Config{Keys: []string{"k"}}, failing, fs, nil).Run(context.Background())
	require.ErrorIs(t, err, ErrExhausted)

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, loaded.Entries[domain.CategoryLove], "file untouched after exhaustion")

	working := &mocks.GeneratorMock{GenerateFunc: func(context.Context, string, string) (string, error) {
		return goodAnswer, nil
	}}
	_, err = New(Config{Keys: []string{"k"}}, working, fs, nil).Run(context.Background())
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, string(before), string(after))

	loaded, err = fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, loaded.Entries[domain.CategoryLove])
	assert.False(t, loaded.Meta.UpdatedTime().IsZero())
}
