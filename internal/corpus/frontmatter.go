package corpus

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fmDelimiter = "---"

// splitFrontMatter splits content into the raw YAML block and the body.
// hasBlock is false when the file does not begin with a front matter delimiter.
// bodyLine is the 1-based line number where the body starts in the source.
// CRLF line endings are tolerated.
func splitFrontMatter(content string) (yamlBlock, body string, bodyLine int, hasBlock bool) {
	if !strings.HasPrefix(content, fmDelimiter+"\n") && !strings.HasPrefix(content, fmDelimiter+"\r\n") {
		return "", content, 1, false
	}

	start := len(fmDelimiter)
	if content[start] == '\r' {
		start++
	}
	start++ // the newline

	closeIdx := strings.Index(content[start:], "\n"+fmDelimiter)
	if closeIdx == -1 {
		// Opening delimiter with no close: not a front matter block.
		return "", content, 1, false
	}
	yamlBlock = content[start : start+closeIdx]

	rest := content[start+closeIdx+1+len(fmDelimiter):]
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")

	// Lines consumed: opening delimiter, the block, closing delimiter.
	bodyLine = 1 + strings.Count(yamlBlock, "\n") + 1 + 1 + 1
	return yamlBlock, rest, bodyLine, true
}

// parseFrontMatter decodes the YAML block into both a raw map and the typed struct.
// Tags given as a single scalar are promoted to a one-element list.
func parseFrontMatter(yamlBlock string) (map[string]interface{}, *FrontMatter, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlBlock), &raw); err != nil {
		return nil, nil, fmt.Errorf("parse YAML front matter: %w", err)
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("front matter is empty")
	}

	fm := &FrontMatter{}
	if v, ok := raw["title"].(string); ok {
		fm.Title = v
	}
	if v, ok := raw["description"].(string); ok {
		fm.Description = v
	}
	if v, ok := raw["author"].(string); ok {
		fm.Author = v
	}
	fm.Date = stringifyDate(raw["date"])
	fm.Tags = stringList(raw["tags"])
	return raw, fm, nil
}

// stringifyDate accepts YAML scalars and timestamps for the date field.
// yaml.v3 resolves unquoted ISO dates to time.Time; those come back as YYYY-MM-DD.
func stringifyDate(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// stringList converts a YAML value to a string slice: a list of scalars,
// or a single scalar promoted to one element.
func stringList(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(fmt.Sprintf("%v", item)); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	default:
		return []string{fmt.Sprintf("%v", t)}
	}
}
