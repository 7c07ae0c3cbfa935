package main

import (
	"fmt"
	"os"

	"github.com/tainthound/jsflow/cmd"
)

// osExit is a seam for tests, matching the teacher's approach of mocking
// os.Exit rather than spawning a subprocess.
var osExit = os.Exit

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}
