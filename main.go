package main

import "github.com/ceprunsa/consultorio_backend/cmd"

func main() {
	cmd.Execute()
}
