package main

import "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/cli"

func main() {
	cli.Execute()
}
