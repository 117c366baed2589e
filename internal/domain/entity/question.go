package entity

// Question — задача, полученная из банка задач. В базе не хранится,
// в пост попадает только ее slug (см. PostQuestion).
type Question struct {
	Title      string
	Slug       string
	Difficulty Difficulty
	PaidOnly   bool
	URL        string
}
