package beatmap

import "strings"

// RankedStatus mirrors the osu! API "approved" values
type RankedStatus int

const (
	Graveyard RankedStatus = iota - 2
	WIP
	Pending
	Ranked
	Approved
	Qualified
	Loved
)

var statusNames = map[RankedStatus]string{
	Graveyard: "graveyard",
	WIP:       "wip",
	Pending:   "pending",
	Ranked:    "ranked",
	Approved:  "approved",
	Qualified: "qualified",
	Loved:     "loved",
}

func (s RankedStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// ParseStatus accepts both API v2 names and v1 numeric strings. Anything else is Pending.
func ParseStatus(s string) RankedStatus {
	s = strings.ToLower(strings.TrimSpace(s))

	for status, name := range statusNames {
		if name == s {
			return status
		}
	}

	switch s {
	case "-2":
		return Graveyard
	case "-1":
		return WIP
	case "1":
		return Ranked
	case "2":
		return Approved
	case "3":
		return Qualified
	case "4":
		return Loved
	}

	return Pending
}

// IsRankedEligible reports whether plays on a beatmap with this status count towards pp
func (s RankedStatus) IsRankedEligible() bool {
	return s == Ranked || s == Approved || s == Loved
}

func (s RankedStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RankedStatus) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
