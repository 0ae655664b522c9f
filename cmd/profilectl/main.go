package main

import "github-profile-analyzer/internal/cli"

func main() {
	cli.Execute()
}
