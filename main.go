package main

import "github.com/nikogura/campaign-planner/cmd"

func main() {
	cmd.Execute()
}
