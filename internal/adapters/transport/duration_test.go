package transport

import "testing"

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "PT2H30M", want: 150},
		{in: "PT45M", want: 45},
		{in: "PT11H", want: 660},
		{in: "PT0H0M", want: 0},
		{in: "PT1H5M30S", want: 65},
		{in: "2H30M", wantErr: true},
		{in: "", wantErr: true},
		{in: "P1DT2H", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseISODuration(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseISODuration(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseISODuration(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
