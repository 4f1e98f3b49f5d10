package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"telegram-reminder-bot/internal/domain"
)

// Resolution is the outcome of a successful parse: the byte span of the
// time expression inside the original text and the resolved UTC instant.
// The caller strips the span out of the text to derive the reminder message.
type Resolution struct {
	Start    int
	End      int
	At       time.Time
	Relative bool
}

var (
	relativeRe = regexp.MustCompile(`(?i)(?:\b(?:in|after)\s+)?\b(\d+)\s*(minutes?|mins?|min|m|hours?|hrs?|hr|h)\b`)
	numericRe  = regexp.MustCompile(`^\d+$`)
	absoluteRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})[ T](\d{1,2}):(\d{2})\b`)

	// Free-text candidates, locale-aware day words with an optional clock suffix.
	dayPhraseRe = regexp.MustCompile(`(?i)\b(?:on\s+)?(tomorrow|today|tonight|monday|tuesday|wednesday|thursday|friday|saturday|sunday)(?:\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?)?\b`)
	clock24Re   = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2}):(\d{2})\b`)
	clock12Re   = regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	atHourRe    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)

	fillerPrefixes = []string{"please", "remind me to", "remind me"}
)

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
	"sunday": time.Sunday,
}

// Resolve scans text for a time expression and resolves it against now in the
// given zone. Precedence: relative quantity+unit, then strict
// "YYYY-MM-DD HH:MM", then free-text phrases (last match in reading order
// wins, biased toward the nearest future occurrence).
//
// Returns domain.ErrParseFailure when nothing time-like is found and
// domain.ErrTimeInPast when an absolute literal has already elapsed.
func Resolve(text string, now time.Time, loc *time.Location) (*Resolution, error) {
	if loc == nil {
		loc = time.UTC
	}

	// A bare number means minutes. This is the guided-flow shortcut where the
	// whole message is the time answer ("30").
	trimmed := strings.TrimSpace(text)
	if numericRe.MatchString(trimmed) {
		n, err := strconv.Atoi(trimmed)
		if err != nil || n <= 0 {
			return nil, domain.ErrParseFailure
		}
		start := strings.Index(text, trimmed)
		return &Resolution{
			Start:    start,
			End:      start + len(trimmed),
			At:       now.Add(time.Duration(n) * time.Minute).UTC(),
			Relative: true,
		}, nil
	}

	if m := relativeRe.FindStringSubmatchIndex(text); m != nil {
		n, _ := strconv.Atoi(text[m[2]:m[3]])
		if n > 0 {
			unit := time.Minute
			if strings.HasPrefix(strings.ToLower(text[m[4]:m[5]]), "h") {
				unit = time.Hour
			}
			return &Resolution{
				Start:    m[0],
				End:      m[1],
				At:       now.Add(time.Duration(n) * unit).UTC(),
				Relative: true,
			}, nil
		}
	}

	if m := absoluteRe.FindStringSubmatchIndex(text); m != nil {
		at, err := time.ParseInLocation("2006-01-02 15:04", normalizeAbsolute(text[m[0]:m[1]]), loc)
		if err != nil {
			return nil, domain.ErrParseFailure
		}
		if !at.After(now) {
			return nil, domain.ErrTimeInPast
		}
		return &Resolution{Start: m[0], End: m[1], At: at.UTC()}, nil
	}

	if c := lastFreeTextCandidate(text, now.In(loc), loc); c != nil {
		return c, nil
	}
	return nil, domain.ErrParseFailure
}

// normalizeAbsolute rewrites the "T" date/time separator so one layout parses
// both accepted forms.
func normalizeAbsolute(s string) string {
	return strings.Replace(s, "T", " ", 1)
}

type candidate struct {
	start, end int
	at         time.Time
}

// lastFreeTextCandidate collects every recognizable date/time phrase and picks
// the last one in reading order; trailing phrases are usually the intended
// ones ("buy milk tomorrow at 10"). Candidates contained in a longer match are
// dropped first so "at 10" does not shadow "tomorrow at 10".
func lastFreeTextCandidate(text string, now time.Time, loc *time.Location) *Resolution {
	var cands []candidate

	for _, m := range dayPhraseRe.FindAllStringSubmatchIndex(text, -1) {
		word := strings.ToLower(text[m[2]:m[3]])
		hour, minute, ok := clockFromGroups(text, m, 2)
		at, valid := resolveDayWord(word, hour, minute, ok, now, loc)
		if valid {
			cands = append(cands, candidate{m[0], m[1], at})
		}
	}
	for _, m := range clock24Re.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[m[2]:m[3]])
		min, _ := strconv.Atoi(text[m[4]:m[5]])
		if h <= 23 && min <= 59 {
			cands = append(cands, candidate{m[0], m[1], nextClock(h, min, now, loc)})
		}
	}
	for _, m := range clock12Re.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[m[2]:m[3]])
		min := 0
		if m[4] >= 0 {
			min, _ = strconv.Atoi(text[m[4]:m[5]])
		}
		h = to24Hour(h, strings.ToLower(text[m[6]:m[7]]))
		if h >= 0 && min <= 59 {
			cands = append(cands, candidate{m[0], m[1], nextClock(h, min, now, loc)})
		}
	}
	for _, m := range atHourRe.FindAllStringSubmatchIndex(text, -1) {
		h, _ := strconv.Atoi(text[m[2]:m[3]])
		if h <= 23 {
			cands = append(cands, candidate{m[0], m[1], nextClock(h, 0, now, loc)})
		}
	}

	cands = dropContained(cands)
	if len(cands) == 0 {
		return nil
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.start >= best.start {
			best = c
		}
	}
	return &Resolution{Start: best.start, End: best.end, At: best.at.UTC()}
}

func clockFromGroups(text string, m []int, i int) (hour, minute int, ok bool) {
	if m[2*i] < 0 {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(text[m[2*i]:m[2*i+1]])
	if m[2*i+2] >= 0 {
		minute, _ = strconv.Atoi(text[m[2*i+2] : m[2*i+3]])
	}
	if m[2*i+4] >= 0 {
		hour = to24Hour(hour, strings.ToLower(text[m[2*i+4]:m[2*i+5]]))
	}
	return hour, minute, hour >= 0 && hour <= 23 && minute <= 59
}

func to24Hour(h int, ampm string) int {
	switch {
	case ampm == "pm" && h != 12:
		h += 12
	case ampm == "am" && h == 12:
		h = 0
	}
	if h > 23 {
		return -1
	}
	return h
}

func resolveDayWord(word string, hour, minute int, hasClock bool, now time.Time, loc *time.Location) (time.Time, bool) {
	switch word {
	case "tomorrow":
		if !hasClock {
			return now.Add(24 * time.Hour), true
		}
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		return t.Add(24 * time.Hour), true
	case "today":
		if !hasClock {
			return time.Time{}, false // "today" alone says nothing about the clock
		}
		return futureBias(time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc), now), true
	case "tonight":
		if !hasClock {
			hour, minute = 20, 0
		}
		return futureBias(time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc), now), true
	default:
		wd, found := weekdays[word]
		if !found {
			return time.Time{}, false
		}
		if !hasClock {
			hour, minute = 9, 0
		}
		t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		days := (int(wd) - int(now.Weekday()) + 7) % 7
		t = t.AddDate(0, 0, days)
		if !t.After(now) {
			t = t.AddDate(0, 0, 7)
		}
		return t, true
	}
}

// nextClock resolves a bare clock time to its nearest future occurrence.
func nextClock(hour, minute int, now time.Time, loc *time.Location) time.Time {
	return futureBias(time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc), now)
}

func futureBias(t, now time.Time) time.Time {
	if !t.After(now) {
		t = t.Add(24 * time.Hour)
	}
	return t
}

func dropContained(cands []candidate) []candidate {
	out := make([]candidate, 0, len(cands))
	for i, c := range cands {
		contained := false
		for j, o := range cands {
			if i != j && o.start <= c.start && c.end <= o.end && (o.end-o.start) > (c.end-c.start) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, c)
		}
	}
	return out
}

// Remainder removes the matched span from text and strips the leading
// imperative fillers, yielding the reminder's stored message.
func Remainder(text string, res *Resolution) string {
	if res == nil {
		return strings.TrimSpace(text)
	}
	rest := text[:res.Start] + " " + text[res.End:]
	rest = strings.Join(strings.Fields(rest), " ")
	for changed := true; changed; {
		changed = false
		for _, p := range fillerPrefixes {
			if len(rest) >= len(p) && strings.EqualFold(rest[:len(p)], p) &&
				(len(rest) == len(p) || rest[len(p)] == ' ') {
				rest = strings.TrimSpace(rest[len(p):])
				changed = true
			}
		}
	}
	return strings.TrimPrefix(rest, "to ")
}
