// cmd/pumpctl/main.go
package main

import (
	"fmt"
	"os"

	"pump-advisor/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.NewApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
