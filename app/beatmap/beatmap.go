package beatmap

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/beatmap/objects"
	"github.com/starpp/starpp/framework/math/vector"
)

// Info is the identity and ranking metadata of a beatmap, without its objects
type Info struct {
	ID      int          `json:"id"`
	SetID   int          `json:"set_id"`
	Hash    string       `json:"hash"`
	Artist  string       `json:"artist"`
	Title   string       `json:"title"`
	Version string       `json:"version"`
	Creator string       `json:"creator"`
	Status  RankedStatus `json:"status"`
}

// DisplayName formats the beatmap the way leaderboard entries show it
func (info Info) DisplayName() string {
	if info.Artist == "" {
		return fmt.Sprintf("%s [%s]", info.Title, info.Version)
	}

	return fmt.Sprintf("%s - %s [%s]", info.Artist, info.Title, info.Version)
}

type BeatMap struct {
	Info

	HP float64
	CS float64
	OD float64
	AR float64

	HitObjects []objects.IHitObject
}

// NewDifficulty builds difficulty settings from the beatmap's base stats
func (beatMap *BeatMap) NewDifficulty() *difficulty.Difficulty {
	return difficulty.NewDifficulty(beatMap.HP, beatMap.CS, beatMap.OD, beatMap.AR)
}

type fileObject struct {
	Type     string            `json:"type"`
	Time     float64           `json:"time"`
	EndTime  float64           `json:"end_time"`
	X        float32           `json:"x"`
	Y        float32           `json:"y"`
	NewCombo bool              `json:"new_combo"`
	Repeats  int               `json:"repeats"`
	Path     []vector.Vector2f `json:"path"`
}

type fileBeatmap struct {
	Info

	HP float64 `json:"hp"`
	CS float64 `json:"cs"`
	OD float64 `json:"od"`
	AR float64 `json:"ar"`

	Objects []fileObject `json:"objects"`
}

// ParseJSON decodes a beatmap object graph. Objects are sorted by start time.
func ParseJSON(data []byte) (*BeatMap, error) {
	var file fileBeatmap
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode beatmap: %w", err)
	}

	beatMap := &BeatMap{
		Info:       file.Info,
		HP:         file.HP,
		CS:         file.CS,
		OD:         file.OD,
		AR:         file.AR,
		HitObjects: make([]objects.IHitObject, 0, len(file.Objects)),
	}

	for i, o := range file.Objects {
		var obj objects.IHitObject

		switch o.Type {
		case "circle", "":
			obj = objects.NewCircle(o.Time, vector.NewVec2f(o.X, o.Y), o.NewCombo)
		case "slider":
			path := o.Path
			if len(path) == 0 {
				path = []vector.Vector2f{vector.NewVec2f(o.X, o.Y)}
			}

			obj = objects.NewSlider(o.Time, o.EndTime, path, o.Repeats, o.NewCombo)
		case "spinner":
			obj = objects.NewSpinner(o.Time, o.EndTime)
		default:
			return nil, fmt.Errorf("object %d: unknown type %q", i, o.Type)
		}

		beatMap.HitObjects = append(beatMap.HitObjects, obj)
	}

	sort.SliceStable(beatMap.HitObjects, func(i, j int) bool {
		return beatMap.HitObjects[i].GetStartTime() < beatMap.HitObjects[j].GetStartTime()
	})

	for i, o := range beatMap.HitObjects {
		o.SetID(i)
	}

	return beatMap, nil
}
