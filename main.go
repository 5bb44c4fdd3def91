package main

import (
	"context"
	"os"

	"github.com/ops4go/phacts/cmd"
	"github.com/ops4go/phacts/internal/buildinfo"
	"github.com/ops4go/phacts/internal/runtime"
)

func main() {
	rt := runtime.New(buildinfo.Current())
	defer func() { _ = rt.Close() }()

	rootCmd := cmd.RootCommand(rt)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_ = rt.Close()
		os.Exit(1)
	}
}
