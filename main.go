package main

import "github.com/mj1618/opi-cli/cmd"

func main() {
	cmd.Execute()
}
