package main

import "github.com/peopled/peopled/cmd"

func main() {
	cmd.Execute()
}
