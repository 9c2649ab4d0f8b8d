// Command pricectl runs planned price maintenance and sets up the data
// prices are computed from.
//
//	pricectl update-prices --tenant <id> [--company <id>] [--batch-size n]
//	pricectl update-prices --all
//	pricectl planned-price <template-id> --tenant <id>
//	pricectl company create <name> --tenant <id> --currency EUR
//	pricectl currency create|add-rate <code> --tenant <id> ...
//	pricectl tax create <name> --tenant <id> --amount 21 [--price-include]
//	pricectl user create|set-groups ... --tenant <id> [--group <group>]
//	pricectl access grant <model> --tenant <id> [--group <group>] --mode read
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(bootstrap).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
