// Command poupa estimates energy, telecom and solar savings.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/poupaenergia/poupa/internal/cli"
	"github.com/poupaenergia/poupa/pkg/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}
