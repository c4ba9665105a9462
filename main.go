package main

import (
	"github.com/AzielCF/az-sched/cmd"
)

func main() {
	cmd.Execute()
}
