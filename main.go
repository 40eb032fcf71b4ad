package main

import "github.com/kingPercy11/Budgetify/cmd"

func main() {
	cmd.Execute()
}
