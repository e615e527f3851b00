package main

import "github.com/adjsw/f1telemetry/cmd"

func main() {
	cmd.Execute()
}
