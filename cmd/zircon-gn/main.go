package main

import "github.com/oshokin/zircon-gn/cmd/zircon-gn/cmd"

func main() {
	cmd.Execute()
}
