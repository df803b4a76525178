package main

import "github.com/bz888/roastbattle/cmd"

func main() {
	cmd.Execute()
}
