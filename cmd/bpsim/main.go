// Package main provides the bpsim command-line tool, which runs branch
// predictors over synthetic or recorded branch streams.
package main

import "github.com/tebeka/atexit"

func main() {
	Execute()
	atexit.Exit(0)
}
