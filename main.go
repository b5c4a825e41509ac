package main

import "github.com/josephlewis42/dsh/cmd"

func main() {
	cmd.Execute()
}
