package main

import "github.com/gnames/gnharmony/cmd"

func main() {
	cmd.Execute()
}
