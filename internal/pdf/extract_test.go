package pdf

import "testing"

func TestFindArxivID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "stamped new style",
			text: "arXiv:2401.12345v2 [cs.LG] 23 Jan 2024",
			want: "2401.12345",
		},
		{
			name: "stamped lowercase",
			text: "preprint arxiv: 2312.00001",
			want: "2312.00001",
		},
		{
			name: "old style",
			text: "arXiv:hep-th/9901001v1",
			want: "hep-th/9901001",
		},
		{
			name: "bare id with valid month",
			text: "see 2407.98765 for details",
			want: "2407.98765",
		},
		{
			name: "bare number with invalid month rejected",
			text: "section 2499.12345 discusses",
			want: "",
		},
		{
			name: "stamped wins over earlier bare token",
			text: "cf. 2301.11111 ... arXiv:2402.22222",
			want: "2402.22222",
		},
		{
			name: "no id",
			text: "a plain abstract about transformers",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindArxivID(tt.text); got != tt.want {
				t.Errorf("FindArxivID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlausibleArxivID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"2401.12345", true},
		{"2412.00001", true},
		{"2400.12345", false},
		{"2413.12345", false},
		{"12.3", false},
	}
	for _, tt := range tests {
		if got := plausibleArxivID(tt.id); got != tt.want {
			t.Errorf("plausibleArxivID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
