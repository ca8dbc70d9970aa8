package pdfdoi

import "testing"

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "citation line",
			text: "PeerJ 2:e338; DOI 10.7717/peerj.338. Published 2014.",
			want: "10.7717/peerj.338",
		},
		{
			name: "uppercase suffix is lowercased",
			text: "https://doi.org/10.1016/S0022-2836(05)80360-2",
			want: "10.1016/s0022-2836(05)80360-2",
		},
		{
			name: "trailing punctuation trimmed",
			text: "see 10.1038/nature12373, for details",
			want: "10.1038/nature12373",
		},
		{
			name: "no doi",
			text: "Volume 12, Issue 3, pages 100-110",
			want: "",
		},
		{
			name: "registrant without suffix is rejected",
			text: "section 10.1234/ of the manual",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindDOI(tt.text); got != tt.want {
				t.Errorf("FindDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindArxivID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "margin stamp with version",
			text: "arXiv:1407.3561v1 [cs.NI] 14 Jul 2014",
			want: "1407.3561",
		},
		{
			name: "five digit sequence",
			text: "arXiv:2301.00001",
			want: "2301.00001",
		},
		{
			name: "no identifier",
			text: "preprint available on request",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindArxivID(tt.text); got != tt.want {
				t.Errorf("FindArxivID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractCitekeyMissingFile(t *testing.T) {
	if _, err := ExtractCitekey("does-not-exist.pdf"); err == nil {
		t.Error("ExtractCitekey on a missing file returned no error")
	}
}
