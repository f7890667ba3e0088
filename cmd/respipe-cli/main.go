// Command respipe-cli is a small redis-cli-alike built on top of the
// respipe Connection: it dials a server, evaluates one command per line,
// and prints the reply the way the package's own handles expose it.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
