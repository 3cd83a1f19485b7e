package main

import "github.com/theirongolddev/stackcost/cmd"

func main() {
	cmd.Execute()
}
