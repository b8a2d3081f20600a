package main

import (
	cmd "github.com/rohmanhakim/hreflang-audit/internal/cli"
)

func main() {
	cmd.Execute()
}
