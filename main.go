package main

import "notion-calendar-sync/cmd"

func main() {
	cmd.Execute()
}
