package main

import "github.com/codeshield/codeshield/cmd/codeshield"

func main() { codeshield.Execute() }
