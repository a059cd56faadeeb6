package main

import "github.com/Hanamant-YB/Land-Clearing-and-Plantation-Platform-sub001/cmd"

func main() {
	cmd.Execute()
}
