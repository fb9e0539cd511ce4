package dictionary

import "testing"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Entry
		wantOK bool
	}{
		{
			name:   "single character",
			line:   "你 你 [ni3] /you (informal)/",
			want:   Entry{Traditional: "你", Simplified: "你", Pronunciation: "ni3", Gloss: "you (informal)"},
			wantOK: true,
		},
		{
			name:   "traditional differs from simplified",
			line:   "國 国 [guo2] /country/nation/",
			want:   Entry{Traditional: "國", Simplified: "国", Pronunciation: "guo2", Gloss: "country"},
			wantOK: true,
		},
		{
			name:   "multi character word",
			line:   "你好 你好 [ni3 hao3] /hello/hi/",
			want:   Entry{Traditional: "你好", Simplified: "你好", Pronunciation: "ni3 hao3", Gloss: "hello"},
			wantOK: true,
		},
		{
			name:   "trailing carriage return",
			line:   "好 好 [hao3] /good/\r",
			want:   Entry{Traditional: "好", Simplified: "好", Pronunciation: "hao3", Gloss: "good"},
			wantOK: true,
		},
		{name: "hash comment", line: "# CC-CEDICT", wantOK: false},
		{name: "percent comment", line: "% 你 你 [ni3] /you/", wantOK: false},
		{name: "missing brackets", line: "你 你 ni3 /you/", wantOK: false},
		{name: "missing gloss", line: "你 你 [ni3]", wantOK: false},
		{name: "empty", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFormatPronunciation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{"strip tones lower", "ni3 hao3", Options{}, "ni hao"},
		{"keep tones lower", "ni3 hao3", Options{Tones: true}, "ni3 hao3"},
		{"capitalize first letter only", "ni3 hao3", Options{Capitalize: true}, "Ni hao"},
		{"capitalize with tones", "ni3 hao3", Options{Tones: true, Capitalize: true}, "Ni3 hao3"},
		{"lowercase proper noun", "Bei3 jing1", Options{}, "bei jing"},
		{"capitalize lowers the rest", "BEI3 Jing1", Options{Capitalize: true}, "Bei jing"},
		{"all digits stripped", "r5 0123456789", Options{}, "r "},
		{"digraph is title-cased", "\u01c6a1", Options{Capitalize: true}, "\u01c5a"},
		{"umlaut", "lu:4", Options{Capitalize: true}, "Lu:"},
		{"empty", "", Options{Capitalize: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPronunciation(tt.in, tt.opts); got != tt.want {
				t.Errorf("FormatPronunciation(%q, %+v) = %q, want %q", tt.in, tt.opts, got, tt.want)
			}
		})
	}
}
