package main

import "msts/internal/cmd"

func main() {
	cmd.Execute()
}
