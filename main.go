package main

import "github.com/nbackup/notion-backup/cmd"

func main() {
	cmd.Execute()
}
