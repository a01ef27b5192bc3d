package main

import "agentedigitalapi/cmd"

// @title           agentedigitalapi
// @version         1.0
// @description     Compliance tracking, incident management and ANCI reporting API

// @BasePath  /

func main() {
	cmd.Execute()
}
