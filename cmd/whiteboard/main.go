package main

import "github.com/inamate/whiteboard/cmd/whiteboard/cmd"

func main() {
	cmd.Execute()
}
