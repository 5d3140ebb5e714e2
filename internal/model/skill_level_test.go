package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromScore_Ranges(t *testing.T) {
	cases := []struct {
		from, to int
		want     SkillLevel
	}{
		{0, 40, LevelUnknown},
		{41, 60, LevelBasic},
		{61, 85, LevelGood},
		{86, 100, LevelExpert},
	}
	for _, tc := range cases {
		for s := tc.from; s <= tc.to; s++ {
			assert.Equal(t, tc.want, LevelFromScore(s), "score %d", s)
		}
	}
}

func TestLevelFromScore_OutOfRangeFallsBack(t *testing.T) {
	assert.Equal(t, LevelUnknown, LevelFromScore(-5))
	assert.Equal(t, LevelUnknown, LevelFromScore(150))
}

func TestCalculateScore(t *testing.T) {
	assert.Equal(t, 75, CalculateScore(3, 4))
	assert.Equal(t, LevelGood, LevelFromScore(CalculateScore(3, 4)))
	assert.Equal(t, 67, CalculateScore(2, 3))
	assert.Equal(t, 33, CalculateScore(1, 3))
	assert.Equal(t, 50, CalculateScore(1, 2))
	assert.Equal(t, 100, CalculateScore(4, 4))
	assert.Equal(t, 0, CalculateScore(0, 0))
}

func TestSkillLevel_DisplayText(t *testing.T) {
	assert.Equal(t, "🟩 GOOD (61-85%)", LevelGood.DisplayText())
	assert.Equal(t, "🟥 UNKNOWN (0-40%)", LevelUnknown.DisplayText())
	assert.True(t, LevelExpert.Valid())
	assert.False(t, SkillLevel("MASTER").Valid())
}

func TestSkill_UpdateLevel(t *testing.T) {
	s := &Skill{Level: LevelUnknown}
	s.UpdateLevel(90)
	assert.Equal(t, LevelExpert, s.Level)
	s.UpdateLevel(50)
	assert.Equal(t, LevelBasic, s.Level)
}
