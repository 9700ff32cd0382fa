package main

import "github.com/stuttgart-things/vaulty/cmd"

func main() {
	cmd.Execute()
}
