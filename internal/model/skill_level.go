package model

import "fmt"

// SkillLevel 熟练度等级，由测验得分决定
type SkillLevel string

const (
	LevelUnknown SkillLevel = "UNKNOWN"
	LevelBasic   SkillLevel = "BASIC"
	LevelGood    SkillLevel = "GOOD"
	LevelExpert  SkillLevel = "EXPERT"
)

// LevelInfo describes the inclusive score range and display metadata of a level.
type LevelInfo struct {
	Level       SkillLevel `json:"level"`
	Description string     `json:"description"`
	MinScore    int        `json:"minScore"`
	MaxScore    int        `json:"maxScore"`
	Glyph       string     `json:"glyph"`
}

// Levels is ordered; LevelFromScore returns the first range that matches.
var Levels = []LevelInfo{
	{LevelUnknown, "Applied without knowledge", 0, 40, "🟥"},
	{LevelBasic, "Applied with basic knowledge", 41, 60, "🟨"},
	{LevelGood, "Applied with good knowledge", 61, 85, "🟩"},
	{LevelExpert, "Applied at expert level", 86, 100, "🟦"},
}

// LevelFromScore maps a percentage to a level. Scores outside every range
// fall back to UNKNOWN.
func LevelFromScore(score int) SkillLevel {
	for _, l := range Levels {
		if score >= l.MinScore && score <= l.MaxScore {
			return l.Level
		}
	}
	return LevelUnknown
}

func (l SkillLevel) Info() LevelInfo {
	for _, info := range Levels {
		if info.Level == l {
			return info
		}
	}
	return Levels[0]
}

// DisplayText renders e.g. "🟩 GOOD (61-85%)".
func (l SkillLevel) DisplayText() string {
	info := l.Info()
	return fmt.Sprintf("%s %s (%d-%d%%)", info.Glyph, info.Level, info.MinScore, info.MaxScore)
}

func (l SkillLevel) Valid() bool {
	for _, info := range Levels {
		if info.Level == l {
			return true
		}
	}
	return false
}
