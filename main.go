package main

import "github.com/wicaksono/storefront/cmd"

func main() {
	cmd.Start()
}
