// Command recipevault manages a local recipe collection from the terminal.
package main

import "github.com/mesh-intelligence/recipevault/internal/cli"

func main() {
	cli.Execute()
}
