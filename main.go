package main

import "pitwall/cmd"

func main() {
	cmd.Execute()
}
