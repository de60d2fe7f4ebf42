package contracts

import "testing"

func TestGradeForRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   Grade
	}{
		{100, GradeA},
		{90, GradeA}, // inclusive lower bound
		{89, GradeB},
		{70, GradeB},
		{69, GradeC},
		{50, GradeC},
		{49, GradeD},
		{30, GradeD},
		{29, GradeE},
		{0, GradeE},
	}

	for _, tt := range tests {
		if got := GradeForRating(tt.rating); got != tt.want {
			t.Errorf("GradeForRating(%v) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestGradeForFundamentalScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Grade
	}{
		{100, GradeA},
		{80, GradeA},
		{79.9, GradeB},
		{60, GradeB},
		{40, GradeC},
		{39, GradeD}, // deficit cap lands here
		{20, GradeD},
		{19.9, GradeE},
	}

	for _, tt := range tests {
		if got := GradeForFundamentalScore(tt.score); got != tt.want {
			t.Errorf("GradeForFundamentalScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
