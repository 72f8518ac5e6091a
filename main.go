package main

import "reservo/cmd"

func main() {
	cmd.Execute()
}
