package main

import "github.com/gaurav-prasanna/fuelcheck/cmd"

func main() {
	cmd.Execute()
}
