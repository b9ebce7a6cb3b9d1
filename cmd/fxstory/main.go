// Package main is the entry point for the fxstory binary.
package main

import "os"

func main() {
	os.Exit(Execute())
}
