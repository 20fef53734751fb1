package main

import "github.com/mongohouse/mongo-data-apis/cmd"

func main() {
	cmd.Execute()
}
