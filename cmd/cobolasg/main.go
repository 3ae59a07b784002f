// Command cobolasg builds Abstract Semantic Graphs from COBOL-85 source
// trees: preprocessing COPY/REPLACE/EXEC directives, parsing the result,
// and walking the parse tree into the typed constructs internal/asg
// defines.
package main

import (
	"os"

	"github.com/cobol85/cobolasg/cmd/cobolasg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
