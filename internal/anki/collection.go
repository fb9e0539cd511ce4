package anki

import (
	"encoding/json"
	"strconv"
)

// The JSON blobs stored in the col table. Only the keys Anki reads on
// import are set.

type deckJSON struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	Mod              int64  `json:"mod"`
	Usn              int    `json:"usn"`
	Conf             int    `json:"conf"`
	Dyn              int    `json:"dyn"`
	Collapsed        bool   `json:"collapsed"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
}

type fieldJSON struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type templateJSON struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Did   *int64 `json:"did"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
}

type modelJSON struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	Usn       int             `json:"usn"`
	Sortf     int             `json:"sortf"`
	Did       int64           `json:"did"`
	Flds      []fieldJSON     `json:"flds"`
	Tmpls     []templateJSON  `json:"tmpls"`
	Req       [][]interface{} `json:"req"`
	CSS       string          `json:"css"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Tags      []string        `json:"tags"`
	Vers      []int           `json:"vers"`
}

type newConfJSON struct {
	Delays        []int `json:"delays"`
	Ints          []int `json:"ints"`
	InitialFactor int   `json:"initialFactor"`
	PerDay        int   `json:"perDay"`
	Order         int   `json:"order"`
	Bury          bool  `json:"bury"`
	Separate      bool  `json:"separate"`
}

type lapseConfJSON struct {
	Delays      []int   `json:"delays"`
	Mult        float64 `json:"mult"`
	MinInt      int     `json:"minInt"`
	LeechFails  int     `json:"leechFails"`
	LeechAction int     `json:"leechAction"`
}

type revConfJSON struct {
	PerDay   int     `json:"perDay"`
	Ease4    float64 `json:"ease4"`
	Fuzz     float64 `json:"fuzz"`
	MaxIvl   int     `json:"maxIvl"`
	IvlFct   float64 `json:"ivlFct"`
	Bury     bool    `json:"bury"`
	MinSpace int     `json:"minSpace"`
}

type deckConfJSON struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Mod      int64         `json:"mod"`
	Usn      int           `json:"usn"`
	Dyn      int           `json:"dyn"`
	MaxTaken int           `json:"maxTaken"`
	Timer    int           `json:"timer"`
	Autoplay bool          `json:"autoplay"`
	Replayq  bool          `json:"replayq"`
	New      newConfJSON   `json:"new"`
	Lapse    lapseConfJSON `json:"lapse"`
	Rev      revConfJSON   `json:"rev"`
}

type colConfJSON struct {
	NextPos       int     `json:"nextPos"`
	EstTimes      bool    `json:"estTimes"`
	ActiveDecks   []int64 `json:"activeDecks"`
	SortType      string  `json:"sortType"`
	SortBackwards bool    `json:"sortBackwards"`
	AddToCur      bool    `json:"addToCur"`
	CurDeck       int64   `json:"curDeck"`
	CurModel      string  `json:"curModel"`
	NewSpread     int     `json:"newSpread"`
	DueCounts     bool    `json:"dueCounts"`
	CollapseTime  int     `json:"collapseTime"`
	TimeLim       int     `json:"timeLim"`
	SchedVer      int     `json:"schedVer"`
}

const cardCSS = `.card { font-family: Arial, sans-serif; text-align: center; color: #222; background: #fff; }
.hanzi { font-size: 72px; margin: 20px 0; }
.pinyin { font-size: 32px; color: #1565c0; }
.notes { font-size: 14px; color: #777; margin-top: 16px; }`

// noteFields are the note type fields in order
var noteFields = []string{"Hanzi", "Pinyin", "Notes"}

func newDeck(id int64, name, desc string, now int64) deckJSON {
	return deckJSON{ID: id, Name: name, Desc: desc, Mod: now, Conf: 1, ExtendNew: 10, ExtendRev: 50}
}

// newModel builds the note type: recognition (hanzi → pinyin) and recall
// (pinyin → hanzi) cards from one note
func (g *APKGGenerator) newModel(now int64) modelJSON {
	flds := make([]fieldJSON, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if name == "Hanzi" {
			size = 48
		}
		flds[i] = fieldJSON{Name: name, Ord: i, Font: "Arial", Size: size, Media: []string{}}
	}

	return modelJSON{
		ID:   g.modelID,
		Name: "Hanzi from pinyinify (Basic + Reverse)",
		Mod:  now,
		Usn:  -1,
		Did:  g.deckID,
		Flds: flds,
		Tags: []string{},
		Vers: []int{},
		CSS:  cardCSS,
		Req:  [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		Tmpls: []templateJSON{
			{
				Name: "Recognition",
				Ord:  0,
				Qfmt: `<div class="hanzi">{{Hanzi}}</div>`,
				Afmt: `{{FrontSide}}<hr id="answer"><div class="pinyin">{{Pinyin}}</div><div class="notes">{{Notes}}</div>`,
			},
			{
				Name: "Recall",
				Ord:  1,
				Qfmt: `<div class="pinyin">{{Pinyin}}</div>`,
				Afmt: `{{FrontSide}}<hr id="answer"><div class="hanzi">{{Hanzi}}</div><div class="notes">{{Notes}}</div>`,
			},
		},
	}
}

func defaultDeckConf(now int64) deckConfJSON {
	return deckConfJSON{
		ID:       1,
		Name:     "Default",
		Mod:      now,
		MaxTaken: 60,
		New: newConfJSON{
			Delays:        []int{1, 10},
			Ints:          []int{1, 4, 7},
			InitialFactor: 2500,
			PerDay:        20,
			Order:         1,
			Bury:          true,
			Separate:      true,
		},
		Lapse: lapseConfJSON{Delays: []int{10}, MinInt: 1, LeechFails: 8},
		Rev: revConfJSON{
			PerDay:   100,
			Ease4:    1.3,
			Fuzz:     0.05,
			MaxIvl:   36500,
			IvlFct:   1,
			Bury:     true,
			MinSpace: 1,
		},
	}
}

// collectionJSON returns the conf, models, decks and dconf columns
func (g *APKGGenerator) collectionJSON(now int64) ([4]string, error) {
	key := func(id int64) string { return strconv.FormatInt(id, 10) }

	values := [4]interface{}{
		colConfJSON{
			NextPos:      1,
			EstTimes:     true,
			ActiveDecks:  []int64{1},
			SortType:     "noteFld",
			AddToCur:     true,
			CurDeck:      1,
			CurModel:     key(g.modelID),
			DueCounts:    true,
			CollapseTime: 1200,
			SchedVer:     1,
		},
		map[string]modelJSON{key(g.modelID): g.newModel(now)},
		map[string]deckJSON{
			"1":           newDeck(1, "Default", "", now),
			key(g.deckID): newDeck(g.deckID, g.deckName, "Characters transliterated by pinyinify", now),
		},
		map[string]deckConfJSON{"1": defaultDeckConf(now)},
	}

	var out [4]string
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = string(data)
	}
	return out, nil
}
