package main

import "github.com/pianovis/handex/cmd"

func main() {
	cmd.Execute()
}
