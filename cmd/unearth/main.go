package main

import "github.com/kynaruniverse/Unearth/cmd/unearth/root"

func main() {
	root.Execute()
}
