package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/database"
)

func TestTableTo_Cards(t *testing.T) {
	pilot := card.Card{CardNo: card.Text("GD01-090"), Name: card.Text("Amuro Ray"), CardType: card.Text("PILOT")}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, []card.Card{gundam(), pilot}))

	out := buf.String()
	assert.Contains(t, out, "GD01-001")
	assert.Contains(t, out, "5/4")
	assert.Contains(t, out, "5.5")
	assert.Contains(t, out, "GD01-090")
}

func TestTableTo_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, []card.Card{}))
	assert.Equal(t, LabelNoResults+"\n", buf.String())
}

func TestTableTo_CardDetail(t *testing.T) {
	c := gundam()

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, &c))

	out := buf.String()
	assert.Contains(t, out, "Cost 3 | AP 5 / HP 4 | Lv.3")
	assert.Contains(t, out, "效果（2 條）")
	assert.Contains(t, out, "+0.5")
	assert.Contains(t, out, "總分：")
	assert.Contains(t, out, "5.5")
}

func TestTableTo_Journal(t *testing.T) {
	msg := "no sheet"
	entries := []database.Adjustment{
		{CardNo: "GD01-001", Value: "1", Outcome: database.OutcomeSaved, CreatedAt: time.Now()},
		{CardNo: "GD01-002", Value: "x", Outcome: database.OutcomeRejected, Message: &msg, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	require.NoError(t, TableTo(&buf, entries))
	assert.Contains(t, buf.String(), "rejected")
	assert.Contains(t, buf.String(), "no sheet")

	buf.Reset()
	require.NoError(t, TableTo(&buf, &database.JournalStats{Total: 2, Saved: 1, Rejected: 1, Cards: 2}))
	assert.Contains(t, buf.String(), "Total attempts:   2")
}

func TestTableTo_Unsupported(t *testing.T) {
	assert.Error(t, TableTo(&bytes.Buffer{}, 42))
	assert.Error(t, OutputTo(&bytes.Buffer{}, "yaml", []card.Card{}))
}

func TestJSONTo_ScoredCards(t *testing.T) {
	pilot := card.Card{CardNo: card.Text("GD01-090"), CardType: card.Text("PILOT")}

	var buf bytes.Buffer
	require.NoError(t, JSONTo(&buf, []card.Card{gundam(), pilot}))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "GD01-001", got[0]["CardNo"])
	assert.Equal(t, 5.5, got[0]["FinalScore"])
	assert.Equal(t, float64(2), got[0]["EffectCount"])
	score := got[0]["Score"].(map[string]interface{})
	assert.Equal(t, true, score["applicable"])

	assert.NotContains(t, got[1], "FinalScore")
	assert.Nil(t, got[1]["Name"], "absent cells stay null")
}

func TestCSV(t *testing.T) {
	c := gundam()
	c.WeightedAdjustment = card.Text("0.5")
	pilot := card.Card{CardNo: card.Text("GD01-090"), CardType: card.Text("PILOT")}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, []card.Card{c, pilot}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])

	row := records[1]
	assert.Equal(t, "GD01-001", row[0])
	assert.Equal(t, "5.5", row[13])
	assert.Equal(t, "0.5", row[14])
	assert.Equal(t, "6", row[15])

	assert.Equal(t, "", records[2][13])
	assert.Equal(t, "", records[2][15])
}
