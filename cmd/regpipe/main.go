// Command regpipe runs the folder-by-folder regression pipeline: per-target OLS
// fits, cross-folder combination of the results tables, trend charts and a run
// summary. Supporting commands normalize raw inputs, plot moving averages and
// print a full OLS summary for one column pair.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
