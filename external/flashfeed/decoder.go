package flashfeed

import (
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/pbarzyk/matchboard/internal/domain/match"
)

// Feed field keys. Context segments carry the competition header (ZA/ZY/ZL)
// that applies to every match segment until the next header.
const (
	keyCompName    = "ZA"
	keyCompCountry = "ZY"
	keyCompPath    = "ZL"

	keyMatchID     = "AA"
	keyStatusCode  = "AB"
	keyKickoff     = "AD"
	keyHomeName    = "AE"
	keyAwayName    = "AF"
	keyHomeScore   = "AG"
	keyAwayScore   = "AH"
	keyHomeScoreHT = "AT"
	keyAwayScoreHT = "AU"
	keyHomeLogo    = "OA"
	keyAwayLogo    = "OB"
)

// Separators are the three delimiters of the wire format. The provider has
// changed them before, so they are configuration, not constants.
type Separators struct {
	Segment  string
	Entry    string
	KeyValue string
}

func DefaultSeparators() Separators {
	return Separators{Segment: "~", Entry: "¬", KeyValue: "÷"}
}

const DefaultLogoBase = "https://static.flashscore.com/res/image/data/"

// Decoder turns raw feed text into matches. The zero value is not usable;
// construct with NewDecoder.
type Decoder struct {
	sep      Separators
	logoBase string
}

type DecoderOption func(*Decoder)

func WithSeparators(sep Separators) DecoderOption {
	return func(d *Decoder) {
		if sep.Segment != "" && sep.Entry != "" && sep.KeyValue != "" {
			d.sep = sep
		}
	}
}

func WithLogoBase(base string) DecoderOption {
	return func(d *Decoder) {
		if base != "" {
			d.logoBase = base
		}
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{sep: DefaultSeparators(), logoBase: DefaultLogoBase}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// context is the competition header carried forward across match segments.
type context struct {
	league  string
	country string
	path    string
}

type segmentKind int

const (
	segmentUnrecognized segmentKind = iota
	segmentContext
	segmentMatch
)

// Decode lazily yields one Match per match segment. Segments that are
// neither a competition header nor a match record are dropped; a malformed
// entry inside a segment is skipped without dropping the segment. Decode
// never fails: empty or garbage input yields nothing.
func (d *Decoder) Decode(raw string) iter.Seq[match.Match] {
	return func(yield func(match.Match) bool) {
		var ctx context

		for _, segment := range strings.Split(raw, d.sep.Segment) {
			if segment == "" {
				continue
			}

			fields := d.parseSegment(segment)
			switch classify(fields) {
			case segmentContext:
				ctx = context{
					league:  fields[keyCompName],
					country: fields[keyCompCountry],
					path:    fields[keyCompPath],
				}
			case segmentMatch:
				if !yield(d.buildMatch(fields, ctx)) {
					return
				}
			}
		}
	}
}

// DecodeAll is Decode collected into a slice.
func (d *Decoder) DecodeAll(raw string) []match.Match {
	var out []match.Match
	for m := range d.Decode(raw) {
		out = append(out, m)
	}
	return out
}

func (d *Decoder) parseSegment(segment string) map[string]string {
	fields := make(map[string]string)
	for _, entry := range strings.Split(segment, d.sep.Entry) {
		key, value, ok := strings.Cut(entry, d.sep.KeyValue)
		if !ok || key == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}

func classify(fields map[string]string) segmentKind {
	if _, ok := fields[keyCompName]; ok {
		return segmentContext
	}
	if _, ok := fields[keyMatchID]; ok {
		return segmentMatch
	}
	return segmentUnrecognized
}

func (d *Decoder) buildMatch(fields map[string]string, ctx context) match.Match {
	statusCode := fields[keyStatusCode]
	ts := safeInt64(fields[keyKickoff])

	return match.Match{
		ID:              fields[keyMatchID],
		StartTimestamp:  ts,
		StartTimeUTC:    toUTCString(ts),
		StatusCode:      statusCode,
		Status:          match.StatusFromCode(statusCode),
		League:          ctx.league,
		Country:         ctx.country,
		CompetitionPath: ctx.path,
		Home:            fields[keyHomeName],
		Away:            fields[keyAwayName],
		HomeScore:       safeInt(fields[keyHomeScore]),
		AwayScore:       safeInt(fields[keyAwayScore]),
		HomeScoreHT:     safeInt(fields[keyHomeScoreHT]),
		AwayScoreHT:     safeInt(fields[keyAwayScoreHT]),
		HomeLogo:        d.logoURL(fields[keyHomeLogo]),
		AwayLogo:        d.logoURL(fields[keyAwayLogo]),
	}
}

// safeInt parses lenient feed integers: missing, empty, "-" and garbage all
// come back nil instead of an error.
func safeInt(raw string) *int {
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func safeInt64(raw string) *int64 {
	if raw == "" || raw == "-" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// maxEpoch guards time.Unix against absurd feed values; year 3000 is well
// past any real kickoff.
const maxEpoch = 32503680000

func toUTCString(ts *int64) string {
	if ts == nil || *ts < 0 || *ts > maxEpoch {
		return ""
	}
	return time.Unix(*ts, 0).UTC().Format(time.RFC3339)
}

func (d *Decoder) logoURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return d.logoBase + raw
}
