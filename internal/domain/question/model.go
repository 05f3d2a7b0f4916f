package question

// Question belongs to a competition; only active questions count toward
// eligibility.
type Question struct {
	ID            string
	CompetitionID string
	Title         string
	Position      int
	Active        bool
}
