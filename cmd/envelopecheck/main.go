// envelopecheck checks and repairs the example bodies of a Postman
// collection against the response envelope contract.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/myposcore/backend/internal/config"
)

func main() {
	config.LoadDotEnvUp(8)

	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errIssuesFound) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
