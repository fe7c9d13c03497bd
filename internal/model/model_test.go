package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDecode(t *testing.T) {
	raw := `{
		"session_id": 12345,
		"group_id": null,
		"status": "matching",
		"movies": [
			{"id": 27205, "title": "Inception", "overview": "dreams", "runtime": "148", "genres": ["Sci-Fi"]},
			{"id": "m2", "title": "Jaws", "description": "shark", "runtime": 124}
		],
		"participants": [
			{"email": "a@b.c", "votes_completed": 2, "total_movies": 2, "voting_complete": true},
			{"email": "d@e.f", "votes_completed": 0, "total_movies": 2, "voting_complete": false}
		],
		"results": null
	}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, ID("12345"), s.ID)
	assert.True(t, s.IsSolo())
	assert.Equal(t, StatusVoting, s.Status)
	require.Len(t, s.Movies, 2)
	assert.Equal(t, ID("27205"), s.Movies[0].ID)
	assert.Equal(t, "dreams", s.Movies[0].Description)
	assert.Equal(t, 148, s.Movies[0].Runtime)
	assert.Equal(t, "shark", s.Movies[1].Description)
	assert.Equal(t, 124, s.Movies[1].Runtime)
	assert.True(t, s.Results.IsEmpty())

	voted, total := s.Progress()
	assert.Equal(t, 1, voted)
	assert.Equal(t, 2, total)

	p, ok := s.Participant("A@B.C")
	assert.True(t, ok)
	assert.True(t, p.VotingComplete)
}

func TestParseSessionStatus(t *testing.T) {
	assert.Equal(t, StatusVoting, ParseSessionStatus("matching"))
	assert.Equal(t, StatusVoting, ParseSessionStatus("voting"))
	assert.Equal(t, StatusCompleted, ParseSessionStatus("completed"))
	assert.Equal(t, StatusEnded, ParseSessionStatus("ended"))
	assert.Equal(t, StatusWaitingForParticipants, ParseSessionStatus("waiting_for_participants"))
	assert.Equal(t, StatusWaitingForParticipants, ParseSessionStatus(""))
}

func TestVotesCoversAll(t *testing.T) {
	movies := []Movie{{ID: "1"}, {ID: "2"}}

	assert.False(t, Votes{"1": true}.CoversAll(movies))
	assert.False(t, Votes{"1": true, "3": false}.CoversAll(movies))
	assert.True(t, Votes{"1": true, "2": false}.CoversAll(movies))
}

func TestDirectionLiked(t *testing.T) {
	assert.True(t, DirectionRight.Liked())
	assert.False(t, DirectionLeft.Liked())

	_, err := ParseDirection("up")
	assert.Error(t, err)
}

func TestResultsPassThrough(t *testing.T) {
	raw := `{"results":{"winning_movie":{"id":7,"title":"Heat"},"score":3,"total_participants":3,"all_scores":{"7":3,"8":1},"extra":"kept"}}`

	var p MatchingCompletePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.JSONEq(t, `{"winning_movie":{"id":7,"title":"Heat"},"score":3,"total_participants":3,"all_scores":{"7":3,"8":1},"extra":"kept"}`, string(p.Results))

	mr, err := p.Results.Decode()
	require.NoError(t, err)
	require.NotNil(t, mr.WinningMovie)
	assert.Equal(t, "Heat", mr.WinningMovie.Title)
	assert.Equal(t, 3, mr.AllScores["7"])
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "matching-session-abc", ChannelName("abc"))
}
