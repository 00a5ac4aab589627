package main

import "worktracker/internal/cli"

func main() {
	cli.Execute()
}
