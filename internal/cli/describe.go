package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"failover-constructor/internal/class"
	"failover-constructor/internal/failover"
)

var describeCmd = &cobra.Command{
	Use:   "describe [class]",
	Short: "Show the attributes of a class, or list the catalog classes",
	Args:  cobra.MaximumNArgs(1),
	Run:   runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) {
	a := mustBuild()

	var err error
	if len(args) == 0 {
		err = a.list(os.Stdout)
	} else {
		err = a.describe(os.Stdout, args[0])
	}

	if err != nil {
		slog.Error("Describe failed", "error", err)
		os.Exit(1)
	}
}

func (a *app) list(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CLASS\tEXTENDS\tFAILOVER")

	for _, name := range a.classes.Names() {
		c, err := a.declared(name)
		if err != nil {
			return err
		}

		parent := "-"
		if c.Parent() != nil {
			parent = c.Parent().Name()
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", name, parent, defaultFailover(c))
	}

	return tw.Flush()
}

func (a *app) describe(w io.Writer, name string) error {
	c, err := a.declared(name)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "class: %s\n", c.Name())

	if c.Parent() != nil {
		_, _ = fmt.Fprintf(w, "extends: %s\n", c.Parent().Name())
	}

	_, _ = fmt.Fprintf(w, "failover_to: %s\n", defaultFailover(c))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ATTRIBUTE\tINIT_ARG\tCONSTRAINT\tREQUIRED\tDEFAULT\tBUILDER\tINITIALIZER")

	for _, d := range c.Attributes() {
		initArg := d.InputKey
		if !d.Suppliable() {
			initArg = "-"
		}

		constraint := d.ConstraintName()
		if constraint == "" {
			constraint = "-"
		}

		def := "-"
		if d.HasDefault {
			def = fmt.Sprintf("%v", d.Default)
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Name, initArg, constraint, strconv.FormatBool(d.Required), def,
			strconv.FormatBool(d.HasBuilder()), strconv.FormatBool(d.HasInitializer()))
	}

	return tw.Flush()
}

func (a *app) declared(name string) (*class.Class, error) {
	c, err := a.classes.Load(name)
	if err != nil {
		return nil, explain(err, name, a.classes.Names())
	}

	declared, ok := c.(*class.Class)
	if !ok {
		return nil, fmt.Errorf("%s is not a declared class", name)
	}

	return declared, nil
}

func defaultFailover(c *class.Class) string {
	raw, ok := c.DefaultFailover(false)
	if !ok {
		return "-"
	}

	d, err := failover.Parse(raw)
	if err != nil || d == nil {
		return "-"
	}

	return d.String()
}
