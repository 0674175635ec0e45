package main

import "mano/cmd"

func main() {
	cmd.Execute()
}
