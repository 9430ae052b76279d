package main

import "github.com/gestormatic/loginapi/cmd"

func main() {
	cmd.Execute()
}
