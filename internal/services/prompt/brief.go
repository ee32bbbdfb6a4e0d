package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"TruthSource/internal/domain/models"
)

const timeLayout = "2006-01-02 15:04"

// brief accumulates titled sections of a prompt in insertion order.
type brief struct {
	sb strings.Builder
}

func (b *brief) heading(format string, a ...interface{}) {
	b.sb.WriteString(fmt.Sprintf(format, a...))
	b.sb.WriteString("\n\n")
}

func (b *brief) section(title string) {
	if b.sb.Len() > 0 && !strings.HasSuffix(b.sb.String(), "\n\n") {
		b.sb.WriteString("\n")
	}
	b.sb.WriteString(title)
	b.sb.WriteString(":\n")
}

func (b *brief) field(name, value string) {
	b.sb.WriteString("- ")
	b.sb.WriteString(name)
	b.sb.WriteString(": ")
	b.sb.WriteString(value)
	b.sb.WriteString("\n")
}

func (b *brief) text(line string) {
	b.sb.WriteString(line)
	b.sb.WriteString("\n")
}

func (b *brief) numbered(items ...string) {
	for i, it := range items {
		b.sb.WriteString(strconv.Itoa(i + 1))
		b.sb.WriteString(". ")
		b.sb.WriteString(it)
		b.sb.WriteString("\n")
	}
}

// metrics writes a float map in key order; empty maps get a placeholder line.
func (b *brief) metrics(m map[string]float64, empty string) {
	if len(m) == 0 {
		b.field("none", empty)
		return
	}
	for _, k := range models.SortedKeys(m) {
		b.field(k, num(m[k]))
	}
}

func (b *brief) String() string {
	return strings.TrimRight(b.sb.String(), "\n") + "\n"
}

// num renders floats with at most four decimals and no trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func stamp(t time.Time) string {
	return t.UTC().Format(timeLayout) + " UTC"
}

func listOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func seasonalLines(b *brief, p models.SeasonalProfile) {
	for m := 1; m <= 12; m++ {
		ratio, ok := p[m]
		if !ok {
			ratio = 1.0
		}
		b.field(models.MonthKey(m), num(ratio))
	}
}
