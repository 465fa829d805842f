package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cboone/scout"
)

var matcherUsage = map[string]string{
	scout.MatchExactTexts:               "TEXT...  element texts equal TEXT, in order",
	scout.MatchTexts:                    "TEXT...  element texts contain TEXT, in order",
	scout.MatchElements:                 "SELECTOR at least one element has a descendant matching SELECTOR",
	scout.MatchFiltered:                 "SELECTOR at least one element matches SELECTOR",
	scout.MatchLength:                   "N        exactly N elements",
	scout.MatchTextCaseInsensitive:      "TEXT     text contains TEXT, ignoring case",
	scout.MatchExactTextCaseInsensitive: "TEXT     text equals TEXT, ignoring case",
	scout.MatchVisible:                  "         every element is rendered",
	scout.MatchChecked:                  "         every element is checked",
}

func newMatchersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matchers",
		Short: "List the matchers usable with assert",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			for _, name := range scout.NewRegistry().Names() {
				fmt.Fprintf(e.out, "%s %s\n", e.pass(fmt.Sprintf("%-26s", name)), matcherUsage[name])
			}
			return nil
		},
	}
}
