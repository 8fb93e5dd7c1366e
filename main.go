package main

import "family-sync/cmd"

func main() {
	cmd.Execute()
}
