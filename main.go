package main

import "github.com/mermaid-tools/mermaidpipe/cmd"

func main() {
	cmd.Execute()
}
