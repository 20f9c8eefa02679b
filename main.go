package main

import (
	"github.com/ProjectsTask/EasySwapMarket/cmd"
)

func main() {
	cmd.Execute()
}
