// Command itemlists manages random item tables rolled with Fudge dice.
package main

import "github.com/mesh-intelligence/itemlists/internal/cli"

func main() {
	cli.Execute()
}
