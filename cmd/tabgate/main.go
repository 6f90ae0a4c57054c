// Command tabgate inspects datasets offline with the same parser the gateway
// uses, so operators can see what an upload will report before sending it.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
