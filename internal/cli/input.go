package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/common"
	"golang.org/x/term"
)

// Terminal seams. Tests replace them to avoid touching a real terminal.
var (
	isTerminal = term.IsTerminal
	getSize    = term.GetSize
)

const defaultWidth = 80

// termWidth reports the columns of stdout, or 80 when it is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !isTerminal(fd) {
		return defaultWidth
	}
	w, _, err := getSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetWithDefault reads a line and falls back to def when it is empty.
func GetWithDefault(reader *bufio.Reader, prompt, def string, w io.Writer) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

// GetYesNo asks a yes/no question; an empty answer yields def.
func GetYesNo(reader *bufio.Reader, prompt string, def bool, w io.Writer) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	s, err := GetSimpleText(reader, fmt.Sprintf("%s (%s)", prompt, hint), w)
	if err != nil {
		return false, err
	}
	return parseYesNo(s, def)
}

func parseYesNo(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("%w: answer %q is not yes or no", common.ErrValidation, s)
	}
}

// splitList parses a comma separated list. Blank input yields nil.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func optionalFloat(s, name string) (*float64, error) {
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a number", common.ErrValidation, name, s)
	}
	return &v, nil
}

func optionalInt(s, name string) (*int, error) {
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a whole number", common.ErrValidation, name, s)
	}
	return &v, nil
}

// parsePressure reads "120/80". Blank input yields nil.
func parsePressure(s string) (sys, dia int, ok bool, err error) {
	if s = strings.TrimSpace(s); s == "" {
		return 0, 0, false, nil
	}
	a, b, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false, fmt.Errorf("%w: blood pressure %q must look like 120/80", common.ErrValidation, s)
	}
	sys, err1 := strconv.Atoi(strings.TrimSpace(a))
	dia, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err1 != nil || err2 != nil {
		return 0, 0, false, fmt.Errorf("%w: blood pressure %q must look like 120/80", common.ErrValidation, s)
	}
	return sys, dia, true, nil
}
