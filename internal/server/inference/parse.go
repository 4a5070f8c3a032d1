package inference

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptyReply            = errors.New("empty model reply")
	ErrMissingTranscription  = errors.New("reply has no " + transcriptionMarker + " section")
	ErrMissingRequestSection = errors.New("reply has no " + requestMarker + " section")
)

// ParseReply splits a model reply at the first transcription marker and then
// at the first request marker after it. Anything following that request
// marker, further markers included, belongs to the identified request.
// Markers match in any Unicode normalization form; the returned sections are
// the reply's own text, only trimmed.
func ParseReply(text string) (transcription, request string, err error) {
	if strings.TrimSpace(text) == "" {
		return "", "", ErrEmptyReply
	}

	_, rest, ok := cutMarker(text, transcriptionMarker)
	if !ok {
		return "", "", ErrMissingTranscription
	}

	transcription, request, ok = cutMarker(rest, requestMarker)
	if !ok {
		return "", "", ErrMissingRequestSection
	}

	return strings.TrimSpace(transcription), strings.TrimSpace(request), nil
}

// cutMarker is strings.Cut with marker matched against the NFC form of s.
// before and after are slices of s itself.
func cutMarker(s, marker string) (before, after string, found bool) {
	marker = norm.NFC.String(marker)

	composed, starts, ends := nfcIndex(s)
	i := strings.Index(composed, marker)
	if i < 0 {
		return s, "", false
	}

	last := i + len(marker) - 1
	return s[:starts[i]], s[ends[last]:], true
}

// nfcIndex returns the NFC form of s and, for every byte of it, the input
// range of the normalization segment that produced it.
func nfcIndex(s string) (composed string, starts, ends []int) {
	var (
		it norm.Iter
		b  strings.Builder
	)
	b.Grow(len(s))
	starts = make([]int, 0, len(s))
	ends = make([]int, 0, len(s))

	it.InitString(norm.NFC, s)
	for !it.Done() {
		start := it.Pos()
		seg := it.Next()
		end := it.Pos()

		b.Write(seg)
		for range seg {
			starts = append(starts, start)
			ends = append(ends, end)
		}
	}

	return b.String(), starts, ends
}
