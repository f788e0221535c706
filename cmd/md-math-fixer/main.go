// md-math-fixer is a command-line tool that detects probable math
// expressions written as plain text in Markdown files and annotates
// them for review.
package main

import (
	"os"

	"github.com/Gongzihang6/md-math-fixer/internal/cli"
	"github.com/Gongzihang6/md-math-fixer/internal/logger"
)

func main() {
	defer logger.Close()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
