package main

import (
	"os"

	"github.com/SscSPs/smb_books/cmd/booksctl/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
