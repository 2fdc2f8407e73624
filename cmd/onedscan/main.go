package main

import "github.com/onedscan/onedscan/cmd/onedscan/cmd"

func main() {
	cmd.Execute()
}
