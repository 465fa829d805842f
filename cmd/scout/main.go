// Command scout inspects HTML files with scout locators and conditions.
//
//	scout resolve "text=Delete"
//	scout query page.html "#todo-list>li" --filter-by .completed
//	scout assert page.html "#todo-list>li" exactTexts a b c --wait
//	scout matchers
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
