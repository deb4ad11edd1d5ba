package main

import "github.com/DoyleJ11/portfolio-backend/internal/cli"

func main() {
	cli.Execute()
}
