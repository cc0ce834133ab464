package main

import (
	"hostmon/cmd/hostmon"
)

func main() {
	hostmon.Execute()
}
