package main

import "github.com/VoxDroid/relgate/cmd"

func main() {
	cmd.Execute()
}
