package main

import (
	deckcmd "gfx.cafe/gfx/deck/cmd"
)

func main() {
	deckcmd.Main()
}
