package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/gcgcards/internal/backend"
	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
)

type stubBackend struct {
	cards    []card.Card
	save     backend.Result
	saved    [][2]string
	criteria []filter.Criteria
}

func (b *stubBackend) Configured() bool { return true }

func (b *stubBackend) QueryURL(c filter.Criteria, useCriteria bool) (string, error) {
	return "https://example.com/exec?action=query", nil
}

func (b *stubBackend) Query(ctx context.Context, c filter.Criteria) (backend.Result, error) {
	b.criteria = append(b.criteria, c)
	return backend.Success{Cards: b.cards}, nil
}

func (b *stubBackend) SetWeightedAdjustment(ctx context.Context, cardNo, adj string) (backend.Result, error) {
	b.saved = append(b.saved, [2]string{cardNo, adj})
	if b.save == nil {
		return backend.Success{Cards: []card.Card{}}, nil
	}
	return b.save, nil
}

type memJournal struct {
	entries []database.Adjustment
}

func (j *memJournal) RecordAdjustment(ctx context.Context, a *database.Adjustment) error {
	a.ID = "id"
	a.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	j.entries = append(j.entries, *a)
	return nil
}

func (j *memJournal) ListAdjustments(ctx context.Context, opts database.ListOptions) ([]database.Adjustment, error) {
	var out []database.Adjustment
	for _, e := range j.entries {
		if opts.CardNo != nil && e.CardNo != *opts.CardNo {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (j *memJournal) GetJournalStats(ctx context.Context) (*database.JournalStats, error) {
	stats := &database.JournalStats{Total: len(j.entries)}
	for _, e := range j.entries {
		if e.Outcome == database.OutcomeSaved {
			stats.Saved++
		}
	}
	return stats, nil
}

func fixtureCards() []card.Card {
	return []card.Card{
		{
			CardNo: card.Text("GD01-001"), Name: card.Text("Gundam"), CardType: card.Text("UNIT"),
			Cost: card.Text("3"), Level: card.Text("3"), AP: card.Text("5"), HP: card.Text("4"),
			Resonance: card.Text("中距離特徵"), EffectText: card.Text("《修復1》\n【搭乘時】【配置時】效果A。"),
		},
		{
			CardNo: card.Text("GD01-090"), Name: card.Text("Amuro Ray"), CardType: card.Text("PILOT"),
			Cost: card.Text("1"),
		},
	}
}

// call runs the given requests through Serve and decodes one response per line
func call(t *testing.T, s *Server, requests ...string) []map[string]interface{} {
	t.Helper()
	var out bytes.Buffer
	err := s.Serve(context.Background(), strings.NewReader(strings.Join(requests, "\n")), &out)
	require.NoError(t, err)

	var responses []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &resp), line)
		responses = append(responses, resp)
	}
	return responses
}

// toolText returns the text content of a tools/call response and its error flag
func toolText(t *testing.T, resp map[string]interface{}) (string, bool) {
	t.Helper()
	result, ok := resp["result"].(map[string]interface{})
	require.True(t, ok, "no result in %v", resp)
	content := result["content"].([]interface{})
	require.Len(t, content, 1)
	isError, _ := result["isError"].(bool)
	return content[0].(map[string]interface{})["text"].(string), isError
}

func toolCall(name, args string) string {
	return `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"` + name + `","arguments":` + args + `}}`
}

func TestServer_Handshake(t *testing.T) {
	s := New(&stubBackend{}, nil, WithVersion("1.2.3"))

	responses := call(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"bogus"}`,
		`not json`,
	)
	require.Len(t, responses, 4)

	info := responses[0]["result"].(map[string]interface{})["serverInfo"].(map[string]interface{})
	assert.Equal(t, ServerName, info["name"])
	assert.Equal(t, "1.2.3", info["version"])

	tools := responses[1]["result"].(map[string]interface{})["tools"].([]interface{})
	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{ToolSearchCards, ToolScoreCard, ToolSetWeightedAdjustment, ToolCountEffects}, names)

	assert.EqualValues(t, codeMethodNotFound, responses[2]["error"].(map[string]interface{})["code"])
	assert.EqualValues(t, codeParseError, responses[3]["error"].(map[string]interface{})["code"])
}

func TestServer_NotificationsGetNoResponse(t *testing.T) {
	s := New(&stubBackend{}, nil)

	responses := call(t, s,
		`{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":1}}`,
		`{"jsonrpc":"2.0","method":"bogus"}`,
		`{"jsonrpc":"2.0","method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":"a","method":"bogus"}`,
	)
	require.Len(t, responses, 1)
	assert.Equal(t, "a", responses[0]["id"])
	assert.EqualValues(t, codeMethodNotFound, responses[0]["error"].(map[string]interface{})["code"])
}

func TestServer_SearchCards(t *testing.T) {
	b := &stubBackend{cards: fixtureCards()}
	s := New(b, nil)

	text, isError := toolText(t, call(t, s, toolCall(ToolSearchCards, `{"cardType":"unit","minScore":"0"}`))[0])
	require.False(t, isError, text)

	var result cardsResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, "共 1 張符合條件。", result.Status)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "GD01-001", result.Cards[0].CardNo.String())
	assert.Equal(t, 5.5, result.Cards[0].Score.Total)
	assert.Equal(t, 2, result.Cards[0].EffectCount)

	require.Len(t, b.criteria, 1)
	assert.Equal(t, filter.Criteria{CardType: "unit", MinScore: "0"}, b.criteria[0])
}

func TestServer_SearchCardsReportsStatus(t *testing.T) {
	b := &rejectingBackend{}
	s := New(b, nil)

	text, isError := toolText(t, call(t, s, toolCall(ToolSearchCards, `{}`))[0])
	assert.True(t, isError)
	assert.Equal(t, "錯誤：quota exceeded", text)
}

type rejectingBackend struct {
	stubBackend
}

func (b *rejectingBackend) Query(ctx context.Context, c filter.Criteria) (backend.Result, error) {
	return backend.Failure{Status: "error", Message: "quota exceeded"}, nil
}

func TestServer_ScoreCard(t *testing.T) {
	s := New(&stubBackend{cards: fixtureCards()}, nil)

	responses := call(t, s,
		toolCall(ToolScoreCard, `{"cardNo":"gd01-001"}`),
		toolCall(ToolScoreCard, `{"cardNo":"GD99-999"}`),
		toolCall(ToolScoreCard, `{"cardNo":" "}`),
	)
	require.Len(t, responses, 3)

	text, isError := toolText(t, responses[0])
	require.False(t, isError, text)
	var result scoreCardResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, []string{"hp+ap：+2", "Level：+1", "效果：+2", "Resonance 含特徵：+0.5"}, result.Breakdown)

	text, isError = toolText(t, responses[1])
	assert.True(t, isError)
	assert.Contains(t, text, "card not found")

	text, isError = toolText(t, responses[2])
	assert.True(t, isError)
	assert.Equal(t, "cardNo is required", text)
}

func TestServer_SetWeightedAdjustment(t *testing.T) {
	b := &stubBackend{cards: fixtureCards()}
	j := &memJournal{}
	s := New(b, nil, WithJournal(j))

	text, isError := toolText(t, call(t, s,
		toolCall(ToolSetWeightedAdjustment, `{"cardNo":"GD01-001","adjustment":"1.5","criteria":{"cardType":"UNIT"}}`))[0])
	require.False(t, isError, text)

	var result cardsResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, "已儲存加權分數。 共 1 張符合條件。", result.Status)

	assert.Equal(t, [][2]string{{"GD01-001", "1.5"}}, b.saved)
	require.Len(t, b.criteria, 1)
	assert.Equal(t, "UNIT", b.criteria[0].CardType)

	require.Len(t, j.entries, 1)
	assert.Equal(t, database.OutcomeSaved, j.entries[0].Outcome)
}

func TestServer_SetWeightedAdjustmentRejected(t *testing.T) {
	b := &stubBackend{save: backend.Failure{Status: "error", Message: "sheet locked"}}
	s := New(b, nil)

	text, isError := toolText(t, call(t, s, toolCall(ToolSetWeightedAdjustment, `{"cardNo":"GD01-001","adjustment":"2"}`))[0])
	assert.True(t, isError)
	assert.True(t, strings.HasPrefix(text, "儲存失敗：sheet locked"), text)
	assert.Empty(t, b.criteria, "no refresh after a failed save")
}

func TestServer_CountEffects(t *testing.T) {
	s := New(&stubBackend{}, nil)

	text, isError := toolText(t, call(t, s, toolCall(ToolCountEffects, `{"text":"【配置時】抽1張卡。【攻擊時】造成1傷害。"}`))[0])
	require.False(t, isError)

	var result countEffectsResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"【配置時】抽1張卡。", "【攻擊時】造成1傷害。"}, result.Lines)
}

func TestServer_Resources(t *testing.T) {
	j := &memJournal{}
	require.NoError(t, j.RecordAdjustment(context.Background(), &database.Adjustment{
		CardNo: "GD01-001", Value: "2", Outcome: database.OutcomeSaved,
	}))
	s := New(&stubBackend{}, nil, WithJournal(j))

	responses := call(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"resources/read","params":{"uri":"gcgcards://rubric"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/read","params":{"uri":"gcgcards://journal"}}`,
		`{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"gcgcards://nope"}}`,
	)
	require.Len(t, responses, 4)

	resources := responses[0]["result"].(map[string]interface{})["resources"].([]interface{})
	assert.Len(t, resources, 2)

	readText := func(resp map[string]interface{}) string {
		contents := resp["result"].(map[string]interface{})["contents"].([]interface{})
		return contents[0].(map[string]interface{})["text"].(string)
	}

	rubric := readText(responses[1])
	assert.Contains(t, rubric, "   3 |              7 |              4")
	assert.Contains(t, rubric, "帶 link: -0.5")

	journal := readText(responses[2])
	assert.Contains(t, journal, "Total attempts: 1")
	assert.Contains(t, journal, "GD01-001 | 2 | saved")

	assert.NotNil(t, responses[3]["error"])
}

func TestServer_JournalDisabled(t *testing.T) {
	s := New(&stubBackend{}, nil)

	responses := call(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		toolCall(ToolListAdjustments, `{}`),
	)
	require.Len(t, responses, 2)

	resources := responses[0]["result"].(map[string]interface{})["resources"].([]interface{})
	assert.Len(t, resources, 1)
	assert.NotNil(t, responses[1]["error"])
}

func TestServer_ListAdjustments(t *testing.T) {
	j := &memJournal{}
	ctx := context.Background()
	require.NoError(t, j.RecordAdjustment(ctx, &database.Adjustment{CardNo: "GD01-001", Value: "1", Outcome: database.OutcomeSaved}))
	require.NoError(t, j.RecordAdjustment(ctx, &database.Adjustment{CardNo: "GD01-002", Value: "x", Outcome: database.OutcomeRejected}))
	s := New(&stubBackend{}, nil, WithJournal(j))

	text, isError := toolText(t, call(t, s, toolCall(ToolListAdjustments, `{"cardNo":"GD01-002"}`))[0])
	require.False(t, isError, text)

	var entries []database.Adjustment
	require.NoError(t, json.Unmarshal([]byte(text), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, database.OutcomeRejected, entries[0].Outcome)
}

func TestServer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(&stubBackend{}, nil).Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
