package main

import "github.com/alexanderritik/pgschema/cmd"

var version = "0.1.0"

func main() {
	cmd.Execute(version)
}
