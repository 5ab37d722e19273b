package main

import (
	cmd "github.com/balrog57/chireaders/cmd/chireaders"
)

func main() {
	cmd.Execute()
}
