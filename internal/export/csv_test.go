package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aind-data/blockhound/pkg/annotations"
)

func TestWriteCSV(t *testing.T) {
	rows := []annotations.Row{
		{
			BlockID: "block_0001",
			Votes: []annotations.Vote{
				{Identity: "alice", Label: 1},
				{Identity: "bob", Label: 2},
			},
			Consensus:    1,
			HasConsensus: true,
			Disagreement: true,
			Override:     &annotations.OverrideEntry{Label: 2, SetBy: "admin", SetAt: time.Now().UTC()},
		},
		{
			BlockID: "block_0002",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, []string{"bob", "alice"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"block_id", "consensus_label", "final_label", "has_disagreement",
		"user_alice_label", "user_bob_label", "exported_at",
	}, records[0], "identity columns sorted regardless of input order")

	first := records[1]
	assert.Equal(t, "block_0001", first[0])
	assert.Equal(t, "1", first[1])
	assert.Equal(t, "2", first[2])
	assert.Equal(t, "true", first[3])
	assert.Equal(t, "1", first[4])
	assert.Equal(t, "2", first[5])
	assert.NotEmpty(t, first[6])

	second := records[2]
	assert.Equal(t, "block_0002", second[0])
	assert.Equal(t, "", second[1], "unlabeled block renders empty cells")
	assert.Equal(t, "", second[2])
	assert.Equal(t, "false", second[3])
	assert.Equal(t, "", second[4])
	assert.Equal(t, "", second[5])

	assert.Equal(t, first[6], second[6], "all rows share one export timestamp")
}
