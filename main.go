package main

import "github.com/redraftapp/redraft/cmd"

func main() {
	cmd.Execute()
}
