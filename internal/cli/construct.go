package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	constructArgs string
	constructDump bool
)

var constructCmd = &cobra.Command{
	Use:   "construct <class>",
	Short: "Construct a class, failing over on construction errors",
	Args:  cobra.ExactArgs(1),
	Run:   runConstruct,
}

func init() {
	constructCmd.Flags().StringVar(&constructArgs, "args", "", "constructor arguments as a YAML mapping")
	constructCmd.Flags().BoolVar(&constructDump, "dump", false, "dump attribute values with their Go types")
	rootCmd.AddCommand(constructCmd)
}

func runConstruct(cmd *cobra.Command, args []string) {
	a := mustBuild()

	if err := a.construct(os.Stdout, args[0], constructArgs, constructDump); err != nil {
		slog.Error("Construction failed", "class", args[0], "error", err)
		os.Exit(1)
	}
}

func (a *app) construct(w io.Writer, name, rawArgs string, dump bool) error {
	ctorArgs, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}

	result, err := a.supervisor().Construct(name, ctorArgs)
	if err != nil {
		return explain(err, name, a.classes.Names())
	}

	writeResult(w, result, dump)

	return nil
}

var rebindArgs string

var rebindCmd = &cobra.Command{
	Use:   "rebind <class>",
	Short: "Construct a class and rebind it in place to the first working subclass",
	Args:  cobra.ExactArgs(1),
	Run:   runRebind,
}

func init() {
	rebindCmd.Flags().StringVar(&rebindArgs, "args", "", "constructor arguments as a YAML mapping")
	rootCmd.AddCommand(rebindCmd)
}

func runRebind(cmd *cobra.Command, args []string) {
	a := mustBuild()

	if err := a.rebind(os.Stdout, args[0], rebindArgs); err != nil {
		slog.Error("In-place construction failed", "class", args[0], "error", err)
		os.Exit(1)
	}
}

func (a *app) rebind(w io.Writer, name, rawArgs string) error {
	ctorArgs, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}

	h, err := a.supervisor().ConstructInPlace(name, ctorArgs)
	if err != nil {
		return explain(err, name, a.classes.Names())
	}

	_, _ = fmt.Fprintf(w, "handle: %s\nbase: %s\n", h.ID, h.Base().Name())

	if h.ClassError() != nil {
		_, _ = fmt.Fprintf(w, "error: %v\n", h.ClassError())
	}

	writeInstance(w, h.Instance(), false)

	return nil
}
