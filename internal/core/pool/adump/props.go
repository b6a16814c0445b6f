package adump

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fenilsonani/adump/internal/core/pool"
)

// parseProps reads a line-oriented property file. Empty lines and lines
// starting with '#' are skipped; everything else must be key=value with
// no surrounding whitespace. Duplicate keys keep the last value.
//
// This only needs to handle properties written by this program, not the
// full java.util.Properties format the layout descends from.
func parseProps(input io.Reader) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &pool.PropertyError{Msg: fmt.Sprintf("line has no '=': %q", line)}
		}
		result[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
