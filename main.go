package main

import "github.com/go-joker/joker/cmd"

func main() {
	cmd.Execute()
}
