// Command recipes runs the recipe generation backend.
//
// @title       Recipe Generation API
// @version     1.0
// @description Generates recipes from selected ingredients with a language model and stores them in Airtable.
// @BasePath    /api
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tbourn/go-recipe-backend/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
