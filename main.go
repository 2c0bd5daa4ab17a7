/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/godmath04/newsfront/cmd"

func main() {
	cmd.Execute()
}
