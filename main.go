package main

import (
	"fmt"
	"os"

	"github.com/heathj/htmldom/parser"
)

func main() {
	doc, err := parser.ParseHTMLDocument(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(doc.String())
}
