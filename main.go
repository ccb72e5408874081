package main

import "menu-sync/cmd"

func main() {
	cmd.Execute()
}
