package main

import "github.com/wetrycode/httpd/command"

func main() {
	command.Execute()
}
