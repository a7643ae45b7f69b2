package util

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"<b>hello</b> world", "hello world"},
		{"line1<br />line2", "line1\nline2"},
		{`<font color="#789922">&gt;&gt;No.50000001</font><br>回复`, ">>No.50000001\n回复"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	if got := Summary("<p>一二三四五六</p>", 4); got != "一二三四…" {
		t.Errorf("got %q", got)
	}
	if got := Summary("a<br>b", 10); got != "a b" {
		t.Errorf("got %q", got)
	}
}

func TestInt64OrDefault(t *testing.T) {
	if Int64OrDefault("", 1) != 1 || Int64OrDefault("x", 1) != 1 || Int64OrDefault("7", 1) != 7 {
		t.Error("unexpected parse result")
	}
}
