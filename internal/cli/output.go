package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"failover-constructor/internal/class"
	"failover-constructor/internal/suggest"
)

const maxSuggestions = 3

// parseArgs decodes a YAML mapping given on the command line.
func parseArgs(raw string) (class.Args, error) {
	args := class.Args{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}

	if err := yaml.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("failed to parse args: %w", err)
	}

	return args, nil
}

// explain adds a hint with similar class names to class lookup errors.
func explain(err error, name string, known []string) error {
	if !errors.Is(err, class.ErrClassNotFound) {
		return err
	}

	if hints := suggest.Closest(name, known, maxSuggestions); len(hints) > 0 {
		return fmt.Errorf("%w (did you mean: %s)", err, strings.Join(hints, ", "))
	}

	return err
}

func writeInstance(w io.Writer, inst *class.Instance, dump bool) {
	_, _ = fmt.Fprintf(w, "class: %s\n", inst.ClassName())

	if dump {
		spew.Fdump(w, inst.Values())
		return
	}

	values := inst.Values()

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ATTRIBUTE\tVALUE")

	for _, name := range slices.Sorted(maps.Keys(values)) {
		_, _ = fmt.Fprintf(tw, "%s\t%v\n", name, values[name])
	}

	_ = tw.Flush()
}

func writeResult(w io.Writer, result any, dump bool) {
	if inst, ok := result.(*class.Instance); ok {
		writeInstance(w, inst, dump)
		return
	}

	_, _ = fmt.Fprint(w, spew.Sdump(result))
}
