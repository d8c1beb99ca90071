// Command vgctl is the admin CLI for the virtual-graph engine: it starts
// the admin HTTP surface (serve) and drives it (vg create/drop/list/
// explain) (spec §6 expansion).
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
