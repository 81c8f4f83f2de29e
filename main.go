package main

import "github.com/ValentinKolb/mcmock/cmd"

func main() {
	cmd.Execute()
}
