package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/auditoria/internal/admincli"
)

func main() {
	if err := admincli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
