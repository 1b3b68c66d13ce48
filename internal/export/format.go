package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/bjarke-xyz/mortgage-intake/internal/intake"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const placeholder = "—"

var (
	moneyPrinter = message.NewPrinter(language.English)
	displayZone  = loadZone("America/Toronto")
)

func loadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatMoney renders a whole-dollar CAD amount, e.g. $400,000.
func FormatMoney(n *float64) string {
	if n == nil {
		return placeholder
	}
	v := math.Round(*n)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v >= math.MaxInt64 {
		return sign + "$" + moneyPrinter.Sprintf("%.0f", v)
	}
	return sign + "$" + moneyPrinter.Sprintf("%d", int64(v))
}

// FormatDate renders a stored date as a long date. Date-only values are shown
// as entered; timestamps are shown in Toronto time.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return placeholder
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format("January 2, 2006")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FormatTime(t)
	}
	return s
}

// FormatTime renders an instant as a long date in Toronto time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.In(displayZone).Format("January 2, 2006")
}

// FullName joins <prefix>-first and <prefix>-last. It is nil unless both
// parts are present.
func FullName(b domain.Bucket, prefix string) *string {
	if b == nil {
		return nil
	}
	first := DisplayValue(b[prefix+"-first"])
	last := DisplayValue(b[prefix+"-last"])
	if first == "" || last == "" {
		return nil
	}
	name := first + " " + last
	return &name
}

// DisplayValue renders a bucket value as plain text. Nil renders as "".
func DisplayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case map[string]any, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

func numberField(b domain.Bucket, key string) *float64 {
	f, ok := intake.ParseNumber(b[key])
	if !ok {
		return nil
	}
	return &f
}

func stringField(b domain.Bucket, key string) string {
	return DisplayValue(b[key])
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// sanitizeFilename creates a safe filename from a title
func sanitizeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	result := b.String()
	if len(result) > 64 {
		result = result[:64]
	}
	if result == "" {
		result = "application"
	}
	return result
}
