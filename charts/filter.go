package charts

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/fruitcast/dashboard/consts"
)

var ErrInvalidYear = errors.New("invalid year")

// ApplyYearFilter returns rawURL with its year parameter set to year, replacing any
// previous value. Year 0 removes the parameter, selecting every year.
func ApplyYearFilter(rawURL string, year int) (string, error) {
	if year < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	q := u.Query()
	if year == 0 {
		q.Del(consts.YearParam)
	} else {
		q.Set(consts.YearParam, strconv.Itoa(year))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseYear reads a year query value. Empty and "all" select every year.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, consts.AllYearsDir) {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 || year > 9999 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return year, nil
}

// localURL keeps only the path and query of rawURL so redirects stay on this host.
func localURL(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
}
