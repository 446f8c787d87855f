package main

import "postulate-api/cmd/postulatectl/commands"

func main() {
	commands.Execute()
}
