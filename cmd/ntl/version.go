package main

import (
	"fmt"
	"runtime"
)

// runVersion prints the compiler version and host info.
func runVersion() {
	fmt.Printf("ntl %s (%s/%s, %s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
