// cmd/ifp-sim/main.go
package main

import (
	"ifp/internal/appshell"
	"ifp/internal/simapp"
)

func main() { appshell.Main(simapp.RunContext) }
