/*
Copyright © 2025 pdekker
*/
package main

import (
	"fmt"
	"os"
)

func debugLog(format string, a ...any) {
	if Debug {
		message := fmt.Sprintf(format, a...)
		fmt.Fprintf(os.Stderr, "[confluence-sync] %s", message)
	}
}
