package headers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func unmarshalNPTTime(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid NPT time: %q", s)
	}

	var hours, mins uint64
	if len(parts) == 3 {
		v, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		hours = v
		parts = parts[1:]
	}
	if len(parts) == 2 {
		v, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		mins = v
		parts = parts[1:]
	}

	secs, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, err
	}

	return time.Duration(secs*float64(time.Second)) +
		time.Duration(mins*60+hours*3600)*time.Second, nil
}

func marshalNPTTime(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// Range is a Range header expressed in NPT units, the only range unit the
// client core needs to speak.
// A PLAY whose start is negative (-1 by convention, meaning "resume")
// sends no Range header at all; the caller checks that before building
// a Range.
type Range struct {
	Start time.Duration
	End   *time.Duration
}

// ParseRange parses a Range header of the form "npt=start-[end]".
func ParseRange(v string) (*Range, error) {
	if !strings.HasPrefix(v, "npt=") {
		return nil, fmt.Errorf("unsupported range unit: %q", v)
	}
	v = v[len("npt="):]

	parts := strings.SplitN(v, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range: %q", v)
	}

	r := &Range{}

	start, err := unmarshalNPTTime(parts[0])
	if err != nil {
		return nil, err
	}
	r.Start = start

	if parts[1] != "" {
		end, err := unmarshalNPTTime(parts[1])
		if err != nil {
			return nil, err
		}
		r.End = &end
	}

	return r, nil
}

// Write encodes a Range header. start == -1 means the caller wants to
// resume and must omit the header entirely; Write is only called when
// that check has already happened.
func (r *Range) Write() string {
	v := "npt=" + marshalNPTTime(r.Start) + "-"
	if r.End != nil {
		v += marshalNPTTime(*r.End)
	}
	return v
}
