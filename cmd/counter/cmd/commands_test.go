package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/counter/cmd/counter/internal/config"
	"github.com/go-drift/counter/pkg/counter"
	"github.com/go-drift/counter/pkg/journal"
)

const shortCounter = `
counter:
  start: 0
  stop: 3
  interval: 30
log:
  level: error
`

func TestRender_WritesOneFramePerRefresh(t *testing.T) {
	out := captureStdout(t)
	dir := filepath.Join(t.TempDir(), "frames")

	err := execute([]string{"--config", writeConfig(t, shortCounter), "render", "--out", dir, "--width", "80", "--height", "20"})
	require.NoError(t, err)

	// 0, 1, 2, 3 and the overshoot to 4
	files, err := filepath.Glob(filepath.Join(dir, "frame-*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 5)
	assert.Contains(t, out.String(), "Wrote 5 frames")

	f, err := os.Open(filepath.Join(dir, "frame-00000.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestRender_MaxFramesBoundsUnboundedCounter(t *testing.T) {
	dir := t.TempDir()
	n, err := renderFrames(zerolog.Nop(), counter.Options{Start: 0, Stop: 0, Step: counter.Float(100)}, renderOptions{
		out:       dir,
		width:     40,
		height:    10,
		maxFrames: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	files, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	assert.Len(t, files, 7)
}

func TestRender_RequiresOut(t *testing.T) {
	captureStdout(t)
	err := execute([]string{"--config", writeConfig(t, shortCounter), "render"})
	assert.ErrorContains(t, err, "--out is required")
}

func TestRunCounter_FinishesAndJournals(t *testing.T) {
	res, err := config.Resolve(&config.Config{
		Counter: config.CounterConfig{Start: 0, Stop: 3, Interval: 30},
	}, "")
	require.NoError(t, err)
	res.JournalPath = filepath.Join(t.TempDir(), "run.jsonl")
	res.JournalFormat = journal.FormatJSONL

	var screen bytes.Buffer
	require.NoError(t, runCounter(context.Background(), &screen, zerolog.Nop(), res))

	assert.Contains(t, screen.String(), "\r0.00\x1b[K")
	assert.True(t, strings.HasSuffix(screen.String(), "4.00\n"), "last frame is kept: %q", screen.String())

	f, err := os.Open(res.JournalPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := journal.ReadAll(f, journal.FormatJSONL)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "create", records[0].Event)
	assert.Equal(t, "destroy", records[len(records)-1].Event)
	assert.Equal(t, 4.0, records[len(records)-1].Value)
}

func TestRunCounter_CancelDestroys(t *testing.T) {
	res, err := config.Resolve(&config.Config{
		Counter: config.CounterConfig{Start: 7, Stop: 7, Step: counter.Float(60000)},
	}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var screen bytes.Buffer
	require.NoError(t, runCounter(ctx, &screen, zerolog.Nop(), res))
	assert.True(t, strings.HasSuffix(screen.String(), "\r\x1b[K7\n"), "%q", screen.String())
}

func TestJournalCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc := journal.NewJSONEncoder(f)
	for i, ev := range []string{"create", "refresh", "refresh", "destroy"} {
		require.NoError(t, enc.Encode(journal.Record{Event: ev, Value: float64(i)}))
	}
	require.NoError(t, f.Close())

	out := captureStdout(t)
	require.NoError(t, execute([]string{"journal", path}))
	assert.Contains(t, out.String(), "4 records")

	out.Reset()
	require.NoError(t, execute([]string{"journal", "--event", "refresh", path}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "value=1")
	assert.Equal(t, "2 records", lines[2])
}

func TestJournalCommand_WrongFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"event":"create"}`+"\n"), 0o644))

	captureStdout(t)
	assert.Error(t, execute([]string{"journal", "--format", "cbor", path}))
	assert.Error(t, execute([]string{"journal"}))
}

func TestShell(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(&out, zerolog.Nop(), counter.Options{
		Start:    5,
		Stop:     10,
		Interval: 1000,
		Step:     counter.Float(600000),
		Round:    counter.Int(0),
		AddClass: "hp",
	})
	defer sh.close()
	assert.Contains(t, out.String(), "[fStart] value=5")

	run := func(line string) string {
		out.Reset()
		assert.False(t, sh.exec(line), line)
		return out.String()
	}

	assert.Equal(t, "5\n", run("value"))
	assert.Equal(t, "5\n", run("show"))
	assert.Equal(t, "[fStop] value=5\n", run("stop"))
	assert.Equal(t, "", run("stop"))

	status := run("status")
	assert.Contains(t, status, "State:    stopped")
	assert.Contains(t, status, fmt.Sprintf("Classes:  %s hp", counter.BaseClass))

	assert.Equal(t, "[fStart] value=5\n", run("start"))
	assert.Equal(t, "[fStop] value=5\n[destroy] value=5\n", run("destroy"))
	assert.Contains(t, run("start"), "Counter is destroyed")
	assert.Contains(t, run("status"), "State:    destroyed")
	assert.Equal(t, "\n", run("show"))

	assert.Contains(t, run("reset"), "New counter created")
	assert.Contains(t, run("status"), "State:    running")
	assert.Contains(t, run("bogus"), "Unknown command: bogus")
	assert.Equal(t, "", run("   "))

	out.Reset()
	assert.True(t, sh.exec("quit"))
}
