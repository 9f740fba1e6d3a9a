package main

import "github.com/gnames/aliquotdb/cmd"

func main() {
	cmd.Execute()
}
