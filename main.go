package main

import "github.com/mmcdade/smallsh/cmd"

func main() {
	cmd.Execute()
}
