// Package confrewrite rewrites simple key=value configuration files
// (HOCON-style scache.conf) without parsing the full grammar.
//
// Only single-line `key = value` assignments are recognized. Comments,
// unknown lines, ordering, and all whitespace outside the substituted value
// segment are preserved byte-for-byte, so the external system's own parser
// stays authoritative for everything the harness does not touch.
package confrewrite

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// keyValueRe matches a single-line assignment, capturing leading whitespace,
// the key, the whitespace around '=', the value, and trailing whitespace.
var keyValueRe = regexp.MustCompile(`^(\s*)([A-Za-z0-9_.-]+)(\s*=\s*)(.*?)(\s*)$`)

// isComment reports whether the line is a comment after left-trimming.
func isComment(line string) bool {
	stripped := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(stripped, "#") || strings.HasPrefix(stripped, "//")
}

// splitKeepEnds splits text into lines, each retaining its trailing newline
// (the final line may lack one). Mirrors how the file will be reassembled.
func splitKeepEnds(text string) []string {
	var lines []string
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:idx+1])
		text = text[idx+1:]
	}
	return lines
}

// Rewrite reads the config file at src, applies updates, and writes the
// result to dst, creating parent directories as needed.
//
// Rules:
//   - comment lines are copied verbatim;
//   - every `key = value` line whose key is in updates has only its value
//     segment replaced, keeping the original whitespace around it;
//   - all other lines are copied verbatim;
//   - updated keys absent from the source are appended as `key=value`.
//
// Missing keys are silently appended, never an error. Multiple occurrences
// of the same key are all rewritten.
func Rewrite(src, dst string, updates map[string]string) error {
	data, err := os.ReadFile(src) //nolint:gosec // caller-controlled path
	if err != nil {
		return errors.Wrapf(err, "reading base config %s", src)
	}

	out := make([]string, 0, 16)
	existing := make(map[string]struct{})

	for _, line := range splitKeepEnds(string(data)) {
		if isComment(line) {
			out = append(out, line)
			continue
		}

		body, eol := splitEOL(line)
		m := keyValueRe.FindStringSubmatch(body)
		if m == nil {
			out = append(out, line)
			continue
		}

		key := m[2]
		existing[key] = struct{}{}
		if value, ok := updates[key]; ok {
			out = append(out, m[1]+key+m[3]+value+m[5]+eol)
		} else {
			out = append(out, line)
		}
	}

	// Keys in deterministic order so repeated generation is reproducible.
	for _, key := range sortedKeys(updates) {
		if _, ok := existing[key]; !ok {
			out = append(out, key+"="+updates[key]+"\n")
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPerm); err != nil {
		return errors.Wrapf(err, "creating config dir for %s", dst)
	}
	if err := os.WriteFile(dst, []byte(strings.Join(out, "")), constants.FilePerm); err != nil {
		return errors.Wrapf(err, "writing config %s", dst)
	}
	return nil
}

// splitEOL separates a line into its body and trailing "\n" (if any).
// A "\r\n" terminator keeps the "\r" in the body so the key/value regex
// treats it as trailing whitespace and reinstates it untouched.
func splitEOL(line string) (body, eol string) {
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CopyFile copies src to dst verbatim, creating dst's parent directories.
// Used to carry the slaves file alongside a generated scache.conf.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // caller-controlled path
	if err != nil {
		return errors.Wrapf(err, "reading %s", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), constants.DirPerm); err != nil {
		return errors.Wrapf(err, "creating dir for %s", dst)
	}
	return errors.Wrapf(os.WriteFile(dst, data, constants.FilePerm), "writing %s", dst)
}
