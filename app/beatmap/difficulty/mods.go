package difficulty

import (
	"strings"
)

type Modifier int64

const (
	None        = Modifier(0)
	NoFail      = Modifier(1 << 0)
	Easy        = Modifier(1 << 1)
	TouchDevice = Modifier(1 << 2)
	Hidden      = Modifier(1 << 3)
	HardRock    = Modifier(1 << 4)
	SuddenDeath = Modifier(1 << 5)
	DoubleTime  = Modifier(1 << 6)
	Relax       = Modifier(1 << 7)
	HalfTime    = Modifier(1 << 8)
	Nightcore   = Modifier(1 << 9)
	Flashlight  = Modifier(1 << 10)
	Autoplay    = Modifier(1 << 11)
	SpunOut     = Modifier(1 << 12)
	Autopilot   = Modifier(1 << 13)
	Perfect     = Modifier(1 << 14)
	ScoreV2     = Modifier(1 << 29)

	// DifficultyAdjustMask is the set of mods that change star rating
	DifficultyAdjustMask = Easy | TouchDevice | HardRock | DoubleTime | HalfTime | Nightcore | Flashlight | Relax | Hidden
)

var modsString = [...]string{
	"NF",
	"EZ",
	"TD",
	"HD",
	"HR",
	"SD",
	"DT",
	"RX",
	"HT",
	"NC",
	"FL",
	"AT",
	"SO",
	"AP",
	"PF",
}

func (mods Modifier) Active(mod Modifier) bool {
	return mods&mod > 0
}

func (mods Modifier) String() (s string) {
	for i, name := range modsString {
		if mods&(1<<uint(i)) > 0 {
			if name == "DT" && mods.Active(Nightcore) {
				continue
			}

			if name == "SD" && mods.Active(Perfect) {
				continue
			}

			s += name
		}
	}

	if mods.Active(ScoreV2) {
		s += "V2"
	}

	return
}

func GetDiffMaskedMods(mods Modifier) Modifier {
	return mods & DifficultyAdjustMask
}

// ParseMods parses acronym strings like "HDDT", "+HD,DT" or "hd dt".
// Unknown acronyms are ignored.
func ParseMods(mods string) (m Modifier) {
	clean := strings.ToUpper(mods)
	clean = strings.NewReplacer("+", "", ",", "", " ", "", "_", "").Replace(clean)

	if clean == "NM" {
		return None
	}

	for i := 0; i+1 < len(clean); i += 2 {
		token := clean[i : i+2]

		if token == "V2" {
			m |= ScoreV2
			continue
		}

		for j, name := range modsString {
			if name == token {
				m |= Modifier(1 << uint(j))
				break
			}
		}
	}

	if m.Active(Nightcore) {
		m |= DoubleTime
	}

	if m.Active(Perfect) {
		m |= SuddenDeath
	}

	return
}

// SpeedMultiplier returns the clock rate implied by the mods alone
func (mods Modifier) SpeedMultiplier() float64 {
	if mods.Active(DoubleTime) || mods.Active(Nightcore) {
		return 1.5
	} else if mods.Active(HalfTime) {
		return 0.75
	}

	return 1.0
}
