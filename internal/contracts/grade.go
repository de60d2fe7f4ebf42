package contracts

// Grade is a letter grade derived from a 0~100 score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// Trend is the 4-period rating direction
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
)

// GradeForRating maps an RS rating (0~100) to a letter grade.
// 하한 포함, 내림차순 first-match: 90=A, 89=B.
func GradeForRating(rating float64) Grade {
	switch {
	case rating >= 90:
		return GradeA
	case rating >= 70:
		return GradeB
	case rating >= 50:
		return GradeC
	case rating >= 30:
		return GradeD
	default:
		return GradeE
	}
}

// GradeForFundamentalScore maps a fundamentals composite score to a grade.
// RS 등급과 경계가 다름 (80/60/40/20).
func GradeForFundamentalScore(score float64) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 60:
		return GradeB
	case score >= 40:
		return GradeC
	case score >= 20:
		return GradeD
	default:
		return GradeE
	}
}
