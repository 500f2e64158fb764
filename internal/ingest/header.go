package ingest

import (
	"strings"
	"unicode"

	"painel/internal/core"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HeaderMap maps logical field names to column positions. -1 marks a field
// whose header was not found.
type HeaderMap map[string]int

// Index returns the column of field, or -1.
func (h HeaderMap) Index(field string) int {
	if i, ok := h[field]; ok {
		return i
	}
	return -1
}

// NormalizeHeader lowercases, trims, strips quotes and folds accents so that
// "Descrição do Serviço" and "descricao do servico" compare equal.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, `"`, "")))
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// ResolveHeaders matches every field against the header row, trying the
// field's synonyms in order. Optional fields that match nothing resolve to
// -1; a required one aborts with *core.MissingColumnError.
func ResolveHeaders(header []string, fields []Field) (HeaderMap, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeHeader(h)
	}
	hm := make(HeaderMap, len(fields))
	for _, f := range fields {
		idx := -1
		for _, syn := range f.Synonyms {
			if i := indexOf(normalized, NormalizeHeader(syn)); i != -1 {
				idx = i
				break
			}
		}
		hm[f.Name] = idx
		if idx == -1 && f.Required {
			expected := f.Name
			if len(f.Synonyms) > 0 {
				expected = f.Synonyms[0]
			}
			return nil, &core.MissingColumnError{
				Field:      f.Name,
				Expected:   expected,
				Suggestion: suggestHeader(header, normalized, expected),
			}
		}
	}
	return hm, nil
}

// suggestHeader returns the raw header text closest to want, or "".
func suggestHeader(raw, normalized []string, want string) string {
	candidates := make([]string, 0, len(normalized))
	for _, n := range normalized {
		if n != "" {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	cm := closestmatch.New(candidates, []int{2, 3})
	match := cm.Closest(NormalizeHeader(want))
	if match == "" {
		return ""
	}
	for i, n := range normalized {
		if n == match {
			return strings.TrimSpace(strings.ReplaceAll(raw[i], `"`, ""))
		}
	}
	return ""
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if v == target {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
