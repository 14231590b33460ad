package main

import "shoe-report/cmd"

func main() {
	cmd.Execute()
}
