package main

import "github.com/mchmarny/rocauc/pkg/cli"

func main() {
	cli.Execute()
}
