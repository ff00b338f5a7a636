package main

import (
	"log"

	"github.com/ByLCY/inkleaf/internal/cli"
)

// 发布时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		log.Fatalf("inkleaf: %v", err)
	}
}
