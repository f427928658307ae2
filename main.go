package main

import "github.com/frahmantamala/maintenance-management/cmd"

func main() {
	cmd.Execute()
}
