package main

import "github.com/campusworks/complaint-management/cmd"

func main() {
	cmd.Execute()
}
