package main

import "github.com/iksnae/notium/cmd"

func main() {
	cmd.Execute()
}
