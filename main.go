package main

import "github.com/MacaquinhoPro/chatgpt2/cmd"

func main() {
	cmd.Execute()
}
