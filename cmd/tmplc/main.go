// Command tmplc compiles templates attached to Go structs via a
// //tmplc:template directive comment into sibling _tmplc.go files, each
// holding a Render method, a String method, and the record's
// descriptor constants.
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
