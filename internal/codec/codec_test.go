package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dialogfix/internal/ruletable"
)

func TestProtect(t *testing.T) {
	table := ruletable.NewSortedTable([]ruletable.Entry{
		{From: "アルフィノ", To: "阿爾菲諾"},
		{From: "アリゼー", To: "阿莉塞"},
		{From: "アルフィノ様", To: "阿爾菲諾大人"},
	})

	coded, ct := Protect("アルフィノ様とアリゼーとアルフィノ", table)

	require.Equal(t, 3, ct.Len())
	assert.Equal(t, 5, len([]rune(coded)), "three tokens and two particles")
	assert.NotContains(t, coded, "アルフィノ")
	assert.Equal(t, "阿爾菲諾大人と阿莉塞と阿爾菲諾", ct.Restore(coded))
	assert.Equal(t, "アルフィノ様とアリゼーとアルフィノ", ct.Revert(coded))
}

func TestProtect_sameSubstringSharesToken(t *testing.T) {
	table := ruletable.NewTable([]ruletable.Entry{{From: "猫", To: "cat"}})

	coded, ct := Protect("猫猫", table)

	require.Equal(t, 1, ct.Len())
	runes := []rune(coded)
	require.Len(t, runes, 2)
	assert.Equal(t, runes[0], runes[1])
}

func TestRevert_identity(t *testing.T) {
	table := ruletable.NewSortedTable([]ruletable.Entry{
		{From: "ヤ・シュトラ", To: "雅·修特拉"},
		{From: "サンクレッド", To: "桑克瑞德"},
		{From: "ラ", To: "拉"},
	})

	texts := []string{
		"",
		"こんにちは",
		"ヤ・シュトラとサンクレッド",
		"ラララ、サンクレッド！",
		"ヤ・シュトラヤ・シュトラ",
	}
	for _, text := range texts {
		coded, ct := Protect(text, table)
		assert.Equal(t, text, ct.Revert(coded), text)
	}
}

func TestRestore_droppedAndUnknownTokens(t *testing.T) {
	table := ruletable.NewTable([]ruletable.Entry{
		{From: "A", To: "x"},
		{From: "B", To: "y"},
	})
	coded, ct := Protect("AB", table)
	tokens := []rune(coded)

	// the translator dropped the second token and invented another one
	translated := string(tokens[0]) + " and " + string(NameTokenFirst+100)

	assert.Equal(t, "x and "+string(NameTokenFirst+100), ct.Restore(translated))
}

func TestCodeTable_Table(t *testing.T) {
	table := ruletable.NewTable([]ruletable.Entry{{From: "猫", To: "cat"}})
	coded, ct := Protect("猫です", table)

	assert.Equal(t, "catです", ct.Table().Replace(coded))
}

func TestCodeTable_exhausted(t *testing.T) {
	ct := newCodeTable(NameTokenFirst, NameTokenFirst+1)

	_, ok := ct.Add("a", "1")
	require.True(t, ok)
	_, ok = ct.Add("b", "2")
	require.True(t, ok)
	_, ok = ct.Add("c", "3")
	assert.False(t, ok)
	token, ok := ct.Add("a", "1")
	assert.True(t, ok)
	assert.Equal(t, string(NameTokenFirst), token)
}

func TestStripTokens(t *testing.T) {
	text := string(NameTokenFirst) + "、" + string(ValueTokenFirst) + "！"
	assert.Equal(t, "、！", StripTokens(text))
	assert.Equal(t, "", strings.TrimSpace(StripTokens(string(NameTokenFirst)+" ")))
	assert.Equal(t, "", StripTokens(string(MarkEscape)))
}
