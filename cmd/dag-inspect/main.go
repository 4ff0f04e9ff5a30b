package main

import (
	"github.com/onflow/flow-narwhal/cmd/dag-inspect/cmd"
)

func main() {
	cmd.Execute()
}
