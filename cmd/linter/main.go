// Command linter runs the forbidcalls analyzer as a standalone vet tool.
package main

import "golang.org/x/tools/go/analysis/singlechecker"

func main() {
	singlechecker.Main(Analyzer)
}
