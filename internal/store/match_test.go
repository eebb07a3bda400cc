package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func id(v int64) *int64 { return &v }

func TestMatchParamsValidate(t *testing.T) {
	valid := MatchParams{
		Team1A: id(1), Team1B: id(2), Team2A: id(3), Team2B: id(4),
		WinnerTeam: 1,
	}
	assert.NoError(t, valid.validate())

	solo := MatchParams{Team1A: id(1), Team2A: id(2), WinnerTeam: 2}
	assert.NoError(t, solo.validate())

	dup := MatchParams{
		Team1A: id(1), Team1B: id(2), Team2A: id(1), Team2B: id(4),
		WinnerTeam: 1,
	}
	assert.ErrorIs(t, dup.validate(), ErrDuplicatePlayers)

	sameTeamDup := MatchParams{
		Team1A: id(5), Team1B: id(5), Team2A: id(6), WinnerTeam: 2,
	}
	assert.ErrorIs(t, sameTeamDup.validate(), ErrDuplicatePlayers)

	badWinner := MatchParams{Team1A: id(1), Team2A: id(2), WinnerTeam: 3}
	assert.ErrorIs(t, badWinner.validate(), ErrInvalidWinner)

	empty := MatchParams{WinnerTeam: 1}
	assert.Error(t, empty.validate())
}

func TestMatchTeamHelpers(t *testing.T) {
	m := Match{Team1A: id(1), Team1B: id(2), Team2A: id(3), WinnerTeam: 2}
	assert.Equal(t, []int64{1, 2}, m.Team1())
	assert.Equal(t, []int64{3}, m.Team2())
	assert.Equal(t, []int64{3}, m.Winners())
	assert.Equal(t, []int64{1, 2}, m.Losers())

	m.WinnerTeam = 1
	assert.Equal(t, []int64{1, 2}, m.Winners())
	assert.Equal(t, []int64{3}, m.Losers())
}
