package utils

import "testing"

func TestSegmentForState(t *testing.T) {
	cases := []struct {
		state *string
		want  string
	}{
		{Ptr("CA"), SegmentLocal},
		{Ptr(" ny "), SegmentLocal},
		{Ptr("tx"), SegmentLocal},
		{Ptr("AZ"), SegmentOutOfState},
		{Ptr("California"), SegmentOutOfState},
		{Ptr(""), SegmentOutOfState},
		{nil, SegmentOutOfState},
	}
	for _, tc := range cases {
		if got := SegmentForState(tc.state); got != tc.want {
			t.Errorf("SegmentForState(%q) = %q, want %q", Val(tc.state), got, tc.want)
		}
	}
}
