// cmd/trocadilho/main.go
package main

import (
	cmd "github.com/mwiater/trocadilho/internal/cli"
)

// main starts the trocadilho CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
