// Package main provides the entry point for the scanbrief CLI.
package main

func main() {
	Execute()
}
