package main

import "voiceswap/cmd"

func main() {
	cmd.Execute()
}
