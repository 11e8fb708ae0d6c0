package main

import "github.com/JakeFAU/pipeline-notify/cmd"

func main() {
	cmd.Execute()
}
