package notify

import (
	"strings"
	"testing"

	logx "shopwatch/pkg/logx"
)

func TestSplitTextShortPassesThrough(t *testing.T) {
	t.Parallel()
	got := splitText("hello", 4000)
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("splitText = %q", got)
	}
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	t.Parallel()
	lines := []string{
		strings.Repeat("a", 60),
		strings.Repeat("b", 60),
		strings.Repeat("c", 60),
	}
	chunks := splitText(strings.Join(lines, "\n"), 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks: %q", len(chunks), chunks)
	}
	for i, chunk := range chunks {
		if chunk != lines[i] {
			t.Errorf("chunk %d = %q, want line %d intact", i, chunk, i)
		}
	}
}

func TestSplitTextHardSplitWithoutNewlines(t *testing.T) {
	t.Parallel()
	chunks := splitText(strings.Repeat("x", 250), 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len([]rune(chunk)) > 100 {
			t.Errorf("chunk %d over limit: %d runes", i, len([]rune(chunk)))
		}
	}
	if joined := strings.Join(chunks, ""); joined != strings.Repeat("x", 250) {
		t.Fatal("hard split lost content")
	}
}

func TestSplitTextAvoidsTinyChunks(t *testing.T) {
	t.Parallel()
	// Newline right after the window start: splitting there would leave a
	// sliver, so the splitter must ignore it.
	s := strings.Repeat("a", 10) + "\n" + strings.Repeat("b", 200)
	for _, chunk := range splitText(s, 100) {
		if n := len([]rune(chunk)); n > 100 {
			t.Fatalf("chunk over limit: %d runes", n)
		}
	}
}

func TestSplitTextCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("₽", 150) // 3 bytes per rune
	chunks := splitText(s, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want split by rune count", len(chunks))
	}
	if n := len([]rune(chunks[0])); n != 100 {
		t.Fatalf("first chunk = %d runes", n)
	}
}

func TestNewTelegramValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewTelegram(TelegramConfig{Token: "", ChatID: 1}, logx.Nop()); err == nil {
		t.Fatal("empty token accepted")
	}
	if _, err := NewTelegram(TelegramConfig{Token: "t", ChatID: 0}, logx.Nop()); err == nil {
		t.Fatal("zero chat id accepted")
	}
}
