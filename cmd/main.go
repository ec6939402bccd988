package main

import (
	api "Fastbreak"
)

func main() {
	api.Run()
}
