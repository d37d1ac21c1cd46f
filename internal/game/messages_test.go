package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLogEvictsOldest(t *testing.T) {
	l := NewMessageLog(3)
	for i, s := range []string{"a", "b", "c", "d"} {
		l.Add(time.Duration(i)*time.Second, s, MsgInfo)
	}
	require.Equal(t, 3, l.Len())
	got := l.Recent(10)
	assert.Equal(t, "b", got[0].Text)
	assert.Equal(t, "d", got[2].Text)
	assert.Equal(t, 3*time.Second, got[2].At)
}

func TestMessageLogWrapsLongLines(t *testing.T) {
	l := NewMessageLog(10)
	l.Width = 12
	l.Add(0, "Ship 3 delivered RARE ore from Vesta", MsgWarning)

	lines := l.Recent(10)
	require.Greater(t, len(lines), 1)
	var words []string
	for _, m := range lines {
		assert.LessOrEqual(t, len(m.Text), 12)
		assert.Equal(t, MsgWarning, m.Priority)
		words = append(words, m.Text)
	}
	assert.Equal(t, "Ship 3 delivered RARE ore from Vesta", strings.Join(words, " "))
}

func TestMessageLogDeliveryCarriesRarity(t *testing.T) {
	l := NewMessageLog(4)
	l.AddDelivery(time.Second, "+1 EPIC", RarityEpic)
	m := l.Recent(1)[0]
	assert.Equal(t, MsgDelivery, m.Priority)
	assert.Equal(t, RarityEpic, m.Rarity)
}

func TestMessageLogRecentIsACopy(t *testing.T) {
	l := NewMessageLog(4)
	l.Add(0, "hello", MsgInfo)
	got := l.Recent(1)
	got[0].Text = "changed"
	assert.Equal(t, "hello", l.Recent(1)[0].Text)
	assert.Empty(t, l.Recent(0))
}
