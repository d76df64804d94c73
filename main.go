// main.go
package main

import "movie-theater/cmd"

func main() {
	cmd.Execute()
}
