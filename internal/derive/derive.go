package derive

import (
	"time"
)

// Display defaults for records missing a stored value. The placeholder path
// is guaranteed to exist in the published site tree.
const (
	PlaceholderImage = "/images/coins/placeholder.png"
	DefaultCountry   = "Россия"
)

// DisplayImage picks the image shown in lists: the obverse path wins when
// non-blank, otherwise the first fallback path. Returns "" when none exist;
// the caller substitutes the placeholder. Only stored paths are consulted,
// never a remote lookup.
func DisplayImage(obverse *string, fallbacks []string) string {
	if obverse != nil && *obverse != "" {
		return *obverse
	}
	if len(fallbacks) > 0 && fallbacks[0] != "" {
		return fallbacks[0]
	}
	return ""
}

// DisplayYear extracts the calendar year of the release date, or 0 when the
// date is unknown. The zero sentinel keeps the export field non-null.
func DisplayYear(releaseDate *time.Time) int {
	if releaseDate == nil {
		return 0
	}
	return releaseDate.Year()
}

// DisplayCountry returns the stored country or the default label.
func DisplayCountry(country string) string {
	if country == "" {
		return DefaultCountry
	}
	return country
}
