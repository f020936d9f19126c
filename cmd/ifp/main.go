// cmd/ifp/main.go
package main

import (
	"ifp/internal/app"
	"ifp/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
