// Command sdbq inspects and edits the items of an sdbmap domain.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
