package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ghmine/internal/core/domain"
)

var newlineStripper = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// quoted wraps s in literal double quote characters.
func quoted(s string) string {
	return `"` + s + `"`
}

// stripNewlines removes every line break from s.
func stripNewlines(s string) string {
	return newlineStripper.Replace(s)
}

// bodyField strips line breaks from a body and quotes it.
// A missing body is absent.
func bodyField(body *string) domain.Field {
	if body == nil {
		return domain.Absent()
	}
	return domain.Value(quoted(stripNewlines(*body)))
}

// commentsField renders a comment count. A count of zero is absent.
func commentsField(n int) domain.Field {
	if n == 0 {
		return domain.Absent()
	}
	return domain.Value(strconv.Itoa(n))
}

// timeField formats t in UTC. A missing time is absent.
func timeField(t *time.Time) domain.Field {
	if t == nil || t.IsZero() {
		return domain.Absent()
	}
	return domain.Value(t.UTC().Format(domain.TimestampLayout))
}

// flagField renders b as 1 or 0.
func flagField(b bool) domain.Field {
	if b {
		return domain.Value("1")
	}
	return domain.Value("0")
}

func intField(n int) domain.Field {
	return domain.Value(strconv.Itoa(n))
}

// fileListField renders file names as a bracketed list: ['a.go', 'b.go'].
func fileListField(names []string) domain.Field {
	var b strings.Builder
	b.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		b.WriteString(name)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return domain.Value(b.String())
}
