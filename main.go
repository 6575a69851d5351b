package main

import "admetrics/cmd"

func main() {
	cmd.Execute()
}
