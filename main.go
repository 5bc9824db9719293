package main

import "github.com/naka-gawa/repo-enricher/cmd"

func main() {
	cmd.Execute()
}
