package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/primecalc/internal/config"
)

// PromptBound asks for the upper bound on out and reads one line from in.
func PromptBound(in io.Reader, out io.Writer) (uint64, error) {
	fmt.Fprint(out, "Enter upper bound (n): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("failed to read upper bound: %w", err)
	}
	return config.ParseBound(strings.TrimSpace(line))
}
