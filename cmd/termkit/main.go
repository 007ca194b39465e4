package main

import "github.com/rx3lixir/termkit/internal/cli"

func main() {
	cli.Execute()
}
