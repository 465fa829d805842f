package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboone/scout"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve SELECTOR",
		Short: "Show how a selector string is interpreted",
		Long: `Resolve prints the selector kind a string dispatches to:
"text=..." searches by text, bare identifiers match the data-qa attribute,
anything else is CSS, or XPath when it starts with "/", "./" or "(".`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	sel := scout.Resolve(args[0])

	fmt.Fprintf(e.out, "%s %s\n", e.dim("kind: "), sel.Kind)
	fmt.Fprintf(e.out, "%s %s\n", e.dim("value:"), sel.Value)
	switch css, ok := sel.CSS(); {
	case ok:
		fmt.Fprintf(e.out, "%s %s\n", e.dim("css:  "), css)
	case sel.IsXPath():
		fmt.Fprintf(e.out, "%s %s\n", e.dim("xpath:"), sel.Value)
	}
	return nil
}
