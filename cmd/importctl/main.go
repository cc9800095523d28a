package main

import "github.com/nayna-import-api/internal/cli"

func main() {
	cli.Execute()
}
