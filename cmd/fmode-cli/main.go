package main

import "fmode-core/cmd/fmode-cli/cmd"

func main() {
	cmd.Execute()
}
