package main

import "github.com/KevinKickass/OpenPanelIO/cmd/opio/cmd"

func main() {
	cmd.Execute()
}
