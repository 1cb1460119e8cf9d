package main

import "github.com/naka-gawa/repo-search/cmd"

func main() {
	cmd.Execute()
}
