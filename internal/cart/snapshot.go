package cart

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fourways-coffee/storefront/internal/domain"
)

const (
	// MaxSnapshotLength is the longest snapshot stored in checkout metadata.
	MaxSnapshotLength = 500

	entrySeparator = "|"
	fieldSeparator = ":"
)

// EncodeSnapshot serialises lines as ref:qty:grind entries joined by "|".
// References are percent-encoded so they cannot collide with the separators.
func EncodeSnapshot(lines []Line) string {
	entries := make([]string, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, strings.Join([]string{
			escapeComponent(l.ProductRef),
			strconv.Itoa(l.Quantity),
			string(l.Grind.OrDefault()),
		}, fieldSeparator))
	}
	return strings.Join(entries, entrySeparator)
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot. Entries that do
// not parse are dropped one by one; a missing grind reads as whole beans.
func DecodeSnapshot(snapshot string) []Line {
	if strings.TrimSpace(snapshot) == "" {
		return nil
	}

	var lines []Line
	for _, entry := range strings.Split(snapshot, entrySeparator) {
		line, ok := decodeEntry(entry)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func decodeEntry(entry string) (Line, bool) {
	parts := strings.Split(entry, fieldSeparator)
	if len(parts) < 2 {
		return Line{}, false
	}

	ref, err := url.PathUnescape(parts[0])
	if err != nil {
		return Line{}, false
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Line{}, false
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || qty <= 0 {
		return Line{}, false
	}

	grind := domain.GrindWholeBeans
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		if grind, err = domain.ParseGrind(parts[2]); err != nil {
			return Line{}, false
		}
	}

	return Line{ProductRef: ref, Quantity: qty, Grind: grind}, true
}

// escapeComponent leaves only A-Z a-z 0-9 and -_.!~*'() unescaped, matching
// what browsers do for a URI component. url.PathEscape keeps ':' as is.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
