package main

import "github.com/kozaktomas/sixpicks/cmd"

func main() {
	cmd.Execute()
}
