package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/go-drift/counter/pkg/journal"
)

func init() {
	RegisterCommand(&Command{
		Name:  "journal",
		Short: "Print a recorded journal",
		Long: `Print the records of a journal written by "counter run --journal".

The format is taken from --format, or from the file extension: files ending
in .jsonl or .json are read as JSON lines, everything else as CBOR.

Flags:
  --format F    cbor or jsonl
  --event NAME  Only print records of this event (create, fStart, refresh, fStop, destroy)`,
		Usage: "counter journal [--format F] [--event NAME] FILE",
		Run:   runJournal,
	})
}

func runJournal(args []string) error {
	var formatName, event string
	fs := newFlagSet("journal")
	fs.StringVar(&formatName, "format", "", "cbor or jsonl")
	fs.StringVar(&event, "event", "", "only print records of this event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("journal file is required\n\nUsage: counter journal [--format F] FILE")
	}
	path := fs.Arg(0)

	if formatName == "" {
		formatName = formatForPath(path)
	}
	format, err := journal.ParseFormat(formatName)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrap(err, "open journal")
	}
	defer f.Close()

	n, err := printJournal(stdout, f, format, event)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d records\n", n)
	return nil
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return string(journal.FormatJSONL)
	default:
		return string(journal.FormatCBOR)
	}
}

// printJournal writes one line per record and returns how many it printed.
func printJournal(w io.Writer, r io.Reader, format journal.Format, event string) (int, error) {
	reader, err := journal.NewReader(r, format)
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if event != "" && rec.Event != event {
			continue
		}
		fmt.Fprintln(w, rec.String())
		n++
	}
}
