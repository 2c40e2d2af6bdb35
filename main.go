package main

import "github.com/kamusis/pfam-cli/cmd"

func main() {
	cmd.Execute()
}
