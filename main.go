package main

import "github.com/vibast-solutions/ms-go-hydration/cmd"

func main() {
	cmd.Execute()
}
