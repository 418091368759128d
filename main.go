/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/league-results/cmd"

func main() {
	cmd.Execute()
}
