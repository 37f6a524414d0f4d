package cli

import (
	"fmt"
	"io"
	"sort"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// ReportError prints err for a terminal user and returns the process exit
// code for it.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(w, "Error: %v\n", err)

	if se, ok := apperrors.As(err); ok && len(se.Context) > 0 {
		keys := make([]string, 0, len(se.Context))
		for k := range se.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "\nContext:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %v\n", k, se.Context[k])
		}
	}
	return apperrors.ExitCode(err)
}
