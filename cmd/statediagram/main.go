// Command statediagram converts, renders and validates Mermaid state diagrams.
package main

import "github.com/amp-labs/diagram-common/cli"

func main() {
	cli.Execute()
}
