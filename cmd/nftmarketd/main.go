package main

import "github.com/nftmarketd/nftmarketd/internal/cli"

func main() {
	cli.Execute()
}
