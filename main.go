package main

import "github.com/yapf-ls/yapfls/cmd"

func main() {
	cmd.Execute()
}
