package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"failover-constructor/internal/catalog"
	"failover-constructor/internal/check"
)

var ErrCheckFailed = errors.New("check failed")

var (
	checkClass string
	checkArgs  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the catalog, or predict the attribute errors of a class",
	Args:  cobra.NoArgs,
	Run:   runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkClass, "class", "", "class to check the arguments against")
	checkCmd.Flags().StringVar(&checkArgs, "args", "", "constructor arguments as a YAML mapping")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	a := setup()

	if err := a.check(os.Stdout, checkClass, checkArgs); err != nil {
		slog.Error("Check failed", "catalog", a.cfg.Catalog, "error", err)
		os.Exit(1)
	}
}

func (a *app) check(w io.Writer, name, rawArgs string) error {
	res := catalog.Validate(a.file, catalog.DefaultRegistry())
	for _, d := range res.All() {
		_, _ = fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}

	if res.HasErrors() {
		return fmt.Errorf("%w: %d catalog errors", ErrCheckFailed, len(res.Errors))
	}

	if name == "" {
		_, _ = fmt.Fprintf(w, "catalog ok: %d classes\n", len(a.file.Classes))
		return nil
	}

	if err := a.build(); err != nil {
		return err
	}

	ctorArgs, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}

	target, err := a.classes.Load(name)
	if err != nil {
		return explain(err, name, a.classes.Names())
	}

	if _, err := check.Attributes(target); err != nil {
		return err
	}

	faults := check.All(target, ctorArgs)
	for _, f := range faults {
		_, _ = fmt.Fprintf(w, "%s: %v\n", f.Kind(), f)
	}

	if len(faults) > 0 {
		return fmt.Errorf("%w: %d predicted errors", ErrCheckFailed, len(faults))
	}

	_, _ = fmt.Fprintf(w, "%s ok\n", name)

	return nil
}
